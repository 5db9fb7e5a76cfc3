package scheduler

import "github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"

// quotaFor 计算每个员工最多能被安排的班次数
func quotaFor(totalSlots int, workerCount int) int {
	return totalSlots/workerCount + 1
}

func (st *state) slotUsed(slot domain.Slot) bool {
	_, used := st.usedSlots[slot]
	return used
}

// violatesAdjacency 检查员工当天是否已经有与 shift 紧挨着的班次
func (st *state) violatesAdjacency(worker string, day domain.Day, shift domain.ShiftKind) bool {
	for _, committed := range st.workerDailyShifts[worker][day] {
		if committed.IsAdjacentTo(shift) {
			return true
		}
	}
	return false
}

// canTake 判断员工能否填补这个 slot（不考虑偏好）
func (st *state) canTake(worker string, slot domain.Slot) bool {
	if st.slotUsed(slot) {
		return false
	}
	if _, used := st.usedWorkerShiftKeys[shiftKey{worker, slot.Day, slot.Shift}]; used {
		return false
	}
	if st.workerLoad[worker] >= st.quota {
		return false
	}
	return !st.violatesAdjacency(worker, slot.Day, slot.Shift)
}

func (st *state) commit(worker string, slot domain.Slot) {
	st.usedWorkerShiftKeys[shiftKey{worker, slot.Day, slot.Shift}] = struct{}{}
	st.usedSlots[slot] = struct{}{}
	st.workerLoad[worker]++
	st.workerDailyShifts[worker][slot.Day] = append(st.workerDailyShifts[worker][slot.Day], slot.Shift)

	st.assignments = append(st.assignments, domain.Assignment{
		Day:    slot.Day,
		Shift:  slot.Shift,
		Worker: worker,
		Slot:   slot,
	})
}
