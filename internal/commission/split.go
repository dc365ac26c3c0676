package commission

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// 分成比例为固定业务常量，不支持按代理配置
var (
	// AgentShareRate 代理分成比例
	AgentShareRate = decimal.NewFromFloat(0.55)
	// OverrideRate 推荐人分成比例（按代理分成的 5% 计）
	OverrideRate = decimal.NewFromFloat(0.05)
)

// ErrNegativeGross 佣金总额为负
var ErrNegativeGross = errors.New("gross amount must not be negative")

// Split 按固定比例拆分佣金。agentShare = round(gross × 0.55)，
// 有推荐人时 overrideShare = round(agentShare × 0.05)，否则为 0。
// 四舍五入规则为 round half away from zero，精确到美分。
func Split(grossCents int64, hasReferrer bool) (agentShareCents, overrideShareCents int64, err error) {
	if grossCents < 0 {
		return 0, 0, ErrNegativeGross
	}

	agentShare := decimal.NewFromInt(grossCents).Mul(AgentShareRate).Round(0)
	agentShareCents = agentShare.IntPart()

	if hasReferrer {
		overrideShareCents = agentShare.Mul(OverrideRate).Round(0).IntPart()
	}
	return agentShareCents, overrideShareCents, nil
}

var nonAmountChars = regexp.MustCompile(`[^0-9.]`)

// ErrUnparsableAmount 金额无法解析
var ErrUnparsableAmount = errors.New("unparsable dollar amount")

// ParseDollarAmount 解析导入金额：剔除非数字字符后按美元转美分
func ParseDollarAmount(raw string) (int64, error) {
	cleaned := nonAmountChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, ErrUnparsableAmount
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, ErrUnparsableAmount
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
