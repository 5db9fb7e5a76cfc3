package scheduler

import (
	"sort"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/matching"
)

// commitOptimal 第一轮：求最小代价匹配，然后按代价从低到高依次提交
// 违反约束的配对直接丢弃，不会在这一轮重试
func (s *Scheduler) commitOptimal(st *state) {
	cost := s.buildCostMatrix()
	pairs := matching.MinCost(cost)

	// 代价相同时保持匹配结果原有的行顺序
	sort.SliceStable(pairs, func(i, j int) bool {
		return cost.At(pairs[i].Row, pairs[i].Col) < cost.At(pairs[j].Row, pairs[j].Col)
	})

	for _, p := range pairs {
		if cost.At(p.Row, p.Col) >= ImpossibleCost {
			continue
		}

		c := s.candidates[p.Row]
		slot := s.slots[p.Col]

		if !st.canTake(c.worker, slot) {
			continue
		}

		st.commit(c.worker, slot)
	}
}

// backfill 第二轮：对每个还空着的 slot，按员工声明的顺序找第一个满足条件的人
// 偏好为 0 的员工同样可以被选中，这一轮不比较代价
func (s *Scheduler) backfill(st *state) []domain.Slot {
	unassigned := make([]domain.Slot, 0)

	for _, slot := range s.slots {
		if st.slotUsed(slot) {
			continue
		}

		assigned := false
		for _, worker := range s.workers {
			if s.preferences.Score(worker, slot.Day, slot.Shift) < 0 {
				continue
			}
			if !st.canTake(worker, slot) {
				continue
			}

			st.commit(worker, slot)
			assigned = true
			break
		}

		if !assigned {
			unassigned = append(unassigned, slot)
		}
	}

	return unassigned
}
