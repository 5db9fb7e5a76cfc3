package utils

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

type prefKey struct {
	worker string
	day    domain.Day
	shift  domain.ShiftKind
}

// ValidateSchedulingRequest 检查排班输入，任何问题都会包装成 domain.ErrInvalidInput
func ValidateSchedulingRequest(req *domain.SchedulingRequest, maxDemand int32) error {
	if req == nil {
		return fmt.Errorf("%w: 排班输入为空", domain.ErrInvalidInput)
	}

	// 检查员工
	if len(req.Workers) == 0 {
		return fmt.Errorf("%w: 至少需要一名员工", domain.ErrInvalidInput)
	}
	workers := make(map[string]bool, len(req.Workers))
	for i, w := range req.Workers {
		if w == "" {
			return fmt.Errorf("%w: 第 %d 名员工的名字为空", domain.ErrInvalidInput, i+1)
		}
		if workers[w] {
			return fmt.Errorf("%w: 员工 %s 重复", domain.ErrInvalidInput, w)
		}
		workers[w] = true
	}

	// 检查每天的班次需求
	offered := make(map[domain.Day]map[domain.ShiftKind]bool, len(req.Days))
	totalSlots := 0
	for _, plan := range req.Days {
		if !plan.Day.Valid() {
			return fmt.Errorf("%w: 非法的日期 %d", domain.ErrInvalidInput, plan.Day)
		}
		if _, exists := offered[plan.Day]; exists {
			return fmt.Errorf("%w: %s 重复出现", domain.ErrInvalidInput, plan.Day)
		}
		offered[plan.Day] = make(map[domain.ShiftKind]bool, len(plan.Shifts))

		for _, demand := range plan.Shifts {
			if !demand.Shift.Valid() {
				return fmt.Errorf("%w: %s 存在非法的班次类型 %q", domain.ErrInvalidInput, plan.Day, demand.Shift)
			}
			if offered[plan.Day][demand.Shift] {
				return fmt.Errorf("%w: %s 的%s重复出现", domain.ErrInvalidInput, plan.Day, demand.Shift.DisplayName())
			}
			if demand.Required < 0 || demand.Required > maxDemand {
				return fmt.Errorf("%w: %s %s的需求人数 %d 不在 0~%d 之间", domain.ErrInvalidInput, plan.Day, demand.Shift.DisplayName(), demand.Required, maxDemand)
			}
			offered[plan.Day][demand.Shift] = true
			totalSlots += int(demand.Required)
		}
	}
	if totalSlots == 0 {
		return fmt.Errorf("%w: 没有任何需要安排人员的班次", domain.ErrInvalidInput)
	}

	// 检查偏好
	seen := make(map[prefKey]bool, len(req.Preferences))
	for _, p := range req.Preferences {
		if !workers[p.Worker] {
			return fmt.Errorf("%w: 偏好中的员工 %s 不存在", domain.ErrInvalidInput, p.Worker)
		}
		if !offered[p.Day][p.Shift] {
			return fmt.Errorf("%w: 员工 %s 的偏好对应的 %s %s 没有开放", domain.ErrInvalidInput, p.Worker, p.Day, p.Shift.DisplayName())
		}
		if p.Score < domain.PreferenceUnavailable || p.Score > domain.PreferenceHighest {
			return fmt.Errorf("%w: 员工 %s 的偏好分数 %d 不在 -1~3 之间", domain.ErrInvalidInput, p.Worker, p.Score)
		}
		key := prefKey{p.Worker, p.Day, p.Shift}
		if seen[key] {
			return fmt.Errorf("%w: 员工 %s 在 %s %s 的偏好重复", domain.ErrInvalidInput, p.Worker, p.Day, p.Shift.DisplayName())
		}
		seen[key] = true
	}

	return nil
}

// ValidateSchedulingResult 检查排班结果是否满足所有约束
// 正常情况下排班引擎不会产生违反约束的结果，这里只是最后的保险
func ValidateSchedulingResult(req *domain.SchedulingRequest, result *domain.SchedulingResult) error {
	demand := make(map[domain.Day]map[domain.ShiftKind]int32)
	for _, plan := range req.Days {
		demand[plan.Day] = make(map[domain.ShiftKind]int32)
		for _, d := range plan.Shifts {
			demand[plan.Day][d.Shift] = d.Required
		}
	}

	preferences := make(map[prefKey]int32, len(req.Preferences))
	for _, p := range req.Preferences {
		preferences[prefKey{p.Worker, p.Day, p.Shift}] = p.Score
	}

	totalSlots := req.TotalSlots()
	if len(result.Assignments)+len(result.UnassignedSlots) != totalSlots {
		return fmt.Errorf("已安排 %d 个、未安排 %d 个，和总需求 %d 不一致", len(result.Assignments), len(result.UnassignedSlots), totalSlots)
	}

	quota := totalSlots/len(req.Workers) + 1
	usedSlots := make(map[domain.Slot]bool)
	usedKeys := make(map[prefKey]bool)
	load := make(map[string]int)
	daily := make(map[string]map[domain.Day][]domain.ShiftKind)

	for _, a := range result.Assignments {
		if a.Slot.Day != a.Day || a.Slot.Shift != a.Shift {
			return fmt.Errorf("员工 %s 的安排和所填补的 slot 不一致", a.Worker)
		}
		if a.Slot.Index < 0 || int32(a.Slot.Index) >= demand[a.Day][a.Shift] {
			return fmt.Errorf("%s %s 不存在第 %d 个 slot", a.Day, a.Shift.DisplayName(), a.Slot.Index+1)
		}
		if usedSlots[a.Slot] {
			return fmt.Errorf("%s %s 的第 %d 个 slot 被重复安排", a.Day, a.Shift.DisplayName(), a.Slot.Index+1)
		}
		usedSlots[a.Slot] = true

		key := prefKey{a.Worker, a.Day, a.Shift}
		if usedKeys[key] {
			return fmt.Errorf("员工 %s 在 %s %s 被重复安排", a.Worker, a.Day, a.Shift.DisplayName())
		}
		usedKeys[key] = true

		score, ok := preferences[key]
		if !ok || score < 0 {
			return fmt.Errorf("员工 %s 在 %s %s 不可用", a.Worker, a.Day, a.Shift.DisplayName())
		}

		load[a.Worker]++
		if load[a.Worker] > quota {
			return fmt.Errorf("员工 %s 的班次数超过了上限 %d", a.Worker, quota)
		}

		if _, exists := daily[a.Worker]; !exists {
			daily[a.Worker] = make(map[domain.Day][]domain.ShiftKind)
		}
		for _, other := range daily[a.Worker][a.Day] {
			if other.IsAdjacentTo(a.Shift) {
				return fmt.Errorf("员工 %s 在 %s 的%s和%s紧挨着", a.Worker, a.Day, other.DisplayName(), a.Shift.DisplayName())
			}
		}
		daily[a.Worker][a.Day] = append(daily[a.Worker][a.Day], a.Shift)
	}

	for _, slot := range result.UnassignedSlots {
		if usedSlots[slot] {
			return errors.New("存在同时被标记为已安排和未安排的 slot")
		}
	}

	return nil
}
