package domain

import "fmt"

// Day 表示一周中的某一天，取值 1~7，按周日到周六的固定顺序排列
type Day int32

const (
	DaySunday Day = iota + 1
	DayMonday
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
)

var dayNames = map[Day]string{
	DaySunday:    "周日",
	DayMonday:    "周一",
	DayTuesday:   "周二",
	DayWednesday: "周三",
	DayThursday:  "周四",
	DayFriday:    "周五",
	DaySaturday:  "周六",
}

// OrderedDays 是一周的固定顺序
var OrderedDays = []Day{DaySunday, DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday}

func (d Day) Valid() bool {
	return d >= DaySunday && d <= DaySaturday
}

// Position 返回该天在一周中的位置（从 0 开始）
func (d Day) Position() int {
	return int(d) - 1
}

func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", int32(d))
}

// ShiftKind 表示班次类型，顺序为 早班 < 午班 < 晚班，相邻规则依赖这个顺序
type ShiftKind string

const (
	ShiftMorning   ShiftKind = "morning"
	ShiftAfternoon ShiftKind = "afternoon"
	ShiftNight     ShiftKind = "night"
)

// OrderedShiftKinds 是班次类型的固定顺序
var OrderedShiftKinds = []ShiftKind{ShiftMorning, ShiftAfternoon, ShiftNight}

var shiftKindNames = map[ShiftKind]string{
	ShiftMorning:   "早班",
	ShiftAfternoon: "午班",
	ShiftNight:     "晚班",
}

// Ordinal 返回班次类型的序号，非法的班次类型返回 -1
func (s ShiftKind) Ordinal() int {
	for i, kind := range OrderedShiftKinds {
		if kind == s {
			return i
		}
	}
	return -1
}

func (s ShiftKind) Valid() bool {
	return s.Ordinal() >= 0
}

// DisplayName 返回班次类型的中文名称
func (s ShiftKind) DisplayName() string {
	if name, ok := shiftKindNames[s]; ok {
		return name
	}
	return string(s)
}

// IsAdjacentTo 判断两个班次类型是否紧挨着（序号相差为 1）
func (s ShiftKind) IsAdjacentTo(other ShiftKind) bool {
	diff := s.Ordinal() - other.Ordinal()
	return diff == 1 || diff == -1
}
