package commission

import (
	"errors"
	"time"

	"github.com/fintechful/agent-portal/internal/constants"
)

// ErrUnknownWindow 未知的报表时间窗口
var ErrUnknownWindow = errors.New("unknown reporting window")

// WindowRange 报表窗口的解析结果。PaidOnly 为真时窗口按支付时间归属，
// 仅统计已支付记录（缺失 paid_at 的已支付记录回退创建时间）。
type WindowRange struct {
	Start    time.Time
	End      time.Time // 开区间上界
	PaidOnly bool
}

// ResolveWindow 按业务语义解析时间窗口：
// thisMonth 当前自然月、不限状态；lastMonth 上一自然月、仅已支付；
// ytd 当前自然年、仅已支付。
func ResolveWindow(window string, now time.Time) (WindowRange, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch window {
	case constants.WindowThisMonth:
		return WindowRange{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}, nil
	case constants.WindowLastMonth:
		return WindowRange{Start: monthStart.AddDate(0, -1, 0), End: monthStart, PaidOnly: true}, nil
	case constants.WindowYTD:
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return WindowRange{Start: yearStart, End: yearStart.AddDate(1, 0, 0), PaidOnly: true}, nil
	case constants.WindowLast12Months:
		return WindowRange{Start: monthStart.AddDate(0, -11, 0), End: monthStart.AddDate(0, 1, 0)}, nil
	}
	return WindowRange{}, ErrUnknownWindow
}

// MonthKey 自然月分桶键（2006-01）
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// TrailingMonthKeys 截至 now 的最近 n 个自然月分桶键，时间升序
func TrailingMonthKeys(now time.Time, n int) []string {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, MonthKey(monthStart.AddDate(0, -i, 0)))
	}
	return keys
}
