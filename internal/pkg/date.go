package pkg

import "time"

const DateLayout = "2006-01-02"

// Clock 可替换的时钟，测试里固定今天
type Clock func() time.Time

// DateOf 取 t 在 loc 下的日历日期，统一用 UTC 零点表示
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 yyyy-mm-dd
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DaysBetween 两个日历日期相差的天数，可能为负
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to, nil).Sub(DateOf(from, nil)).Hours() / 24)
}

// MonthRange 返回 [当月1号, 下月1号)
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
