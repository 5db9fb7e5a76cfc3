package scheduler

import (
	"sort"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

// PreferenceTable 是 (worker, day, shift) 到偏好分数的映射
type PreferenceTable map[shiftKey]int32

func NewPreferenceTable(preferences []domain.Preference) PreferenceTable {
	table := make(PreferenceTable, len(preferences))
	for _, p := range preferences {
		table[shiftKey{p.Worker, p.Day, p.Shift}] = p.Score
	}
	return table
}

// Score 返回偏好分数，未指定的组合视为不可用
func (t PreferenceTable) Score(worker string, day domain.Day, shift domain.ShiftKind) int32 {
	score, ok := t[shiftKey{worker, day, shift}]
	if !ok {
		return domain.PreferenceUnavailable
	}
	return score
}

// SortAssignments 按 星期顺序、班次顺序、员工名字 排序
func SortAssignments(assignments []domain.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Day != b.Day {
			return a.Day.Position() < b.Day.Position()
		}
		if a.Shift != b.Shift {
			return a.Shift.Ordinal() < b.Shift.Ordinal()
		}
		return a.Worker < b.Worker
	})
}

// ComputeStats 统计按最高偏好（3）安排的数量及其占比
func ComputeStats(assignments []domain.Assignment, preferences PreferenceTable) domain.SchedulingStats {
	stats := domain.SchedulingStats{
		TotalAssigned: len(assignments),
	}

	for _, a := range assignments {
		if preferences.Score(a.Worker, a.Day, a.Shift) == domain.PreferenceHighest {
			stats.HighPreferenceCount++
		}
	}

	if stats.TotalAssigned > 0 {
		stats.Percentage = float64(stats.HighPreferenceCount) / float64(stats.TotalAssigned) * 100
	}

	return stats
}

// GroupUnassignedSlots 将没有安排到人的 slot 按 (day, shift) 汇总，保持 slot 出现的顺序
func GroupUnassignedSlots(slots []domain.Slot) []domain.UnassignedShift {
	groups := make([]domain.UnassignedShift, 0)
	index := make(map[domain.Slot]int)

	for _, slot := range slots {
		key := domain.Slot{Day: slot.Day, Shift: slot.Shift}
		if i, exists := index[key]; exists {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, domain.UnassignedShift{
			Day:   slot.Day,
			Shift: slot.Shift,
			Count: 1,
		})
	}

	return groups
}
