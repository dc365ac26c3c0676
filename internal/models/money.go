package models

import (
	"github.com/shopspring/decimal"
)

// 金额统一以最小货币单位（美分）的 int64 存储，避免浮点误差。

// CentsToDecimal 美分转换为美元 decimal（保留 2 位小数）
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(2)
}

// FormatCents 美分格式化为 2 位小数的美元字符串
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
