package domain

// Slot 是一个具体的用人单位：(day, shift, 副本序号)
type Slot struct {
	Day   Day       `json:"day" yaml:"day"`
	Shift ShiftKind `json:"shift" yaml:"shift"`
	Index int       `json:"index" yaml:"index"`
}

type Assignment struct {
	Day    Day       `json:"day" yaml:"day"`
	Shift  ShiftKind `json:"shift" yaml:"shift"`
	Worker string    `json:"worker" yaml:"worker"`
	Slot   Slot      `json:"-" yaml:"-"`
}

// UnassignedShift 汇总某个 (day, shift) 上还缺几个人
type UnassignedShift struct {
	Day   Day       `json:"day" yaml:"day"`
	Shift ShiftKind `json:"shift" yaml:"shift"`
	Count int       `json:"count" yaml:"count"`
}

type SchedulingStats struct {
	HighPreferenceCount int     `json:"highPreferenceCount" yaml:"highPreferenceCount"`
	TotalAssigned       int     `json:"totalAssigned" yaml:"totalAssigned"`
	Percentage          float64 `json:"percentage" yaml:"percentage"`
}

// SchedulingResult 是一次排班的输出
// UnassignedSlots 中的每一项都是一个没有人值班的 slot，不是错误而是需要提醒的情况
type SchedulingResult struct {
	Assignments          []Assignment    `json:"assignments" yaml:"assignments"`
	UnassignedSlots      []Slot          `json:"unassignedSlots" yaml:"unassignedSlots"`
	Stats                SchedulingStats `json:"stats" yaml:"stats"`
	Quota                int             `json:"quota" yaml:"quota"`
	NoEligibleCandidates bool            `json:"noEligibleCandidates" yaml:"noEligibleCandidates"`
}
