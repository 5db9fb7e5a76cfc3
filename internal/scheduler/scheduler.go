package scheduler

import (
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/utils"
)

// Scheduler 对一份输入快照进行排班，不同的 Scheduler 之间不共享任何状态
type Scheduler struct {
	parameters  *Parameters
	request     *domain.SchedulingRequest
	workers     []string
	preferences PreferenceTable
	slots       []domain.Slot // 按 day、shift、副本序号的顺序展开
	candidates  []candidate   // 按 worker、day、shift 的顺序生成，只包含偏好 >= 0 的组合
}

func New(parameters *Parameters, request *domain.SchedulingRequest) (*Scheduler, error) {
	if parameters == nil {
		parameters = DefaultParameters()
	}

	// 在构建任何矩阵之前先检查输入
	if err := utils.ValidateSchedulingRequest(request, parameters.MaxDemand); err != nil {
		return nil, err
	}

	s := &Scheduler{
		parameters:  parameters,
		request:     request,
		workers:     request.Workers,
		preferences: NewPreferenceTable(request.Preferences),
		slots:       make([]domain.Slot, 0, request.TotalSlots()),
		candidates:  make([]candidate, 0),
	}

	for _, plan := range request.Days {
		for _, demand := range plan.Shifts {
			for i := 0; i < int(demand.Required); i++ {
				s.slots = append(s.slots, domain.Slot{
					Day:   plan.Day,
					Shift: demand.Shift,
					Index: i,
				})
			}
		}
	}

	for _, worker := range s.workers {
		for _, plan := range request.Days {
			for _, demand := range plan.Shifts {
				score := s.preferences.Score(worker, plan.Day, demand.Shift)
				if score < 0 {
					continue
				}
				s.candidates = append(s.candidates, candidate{
					worker: worker,
					day:    plan.Day,
					shift:  demand.Shift,
					score:  score,
				})
			}
		}
	}

	return s, nil
}

// Quota 返回每个员工最多可以被安排的班次数
func (s *Scheduler) Quota() int {
	return quotaFor(len(s.slots), len(s.workers))
}

// Slots 返回展开后的所有 slot
func (s *Scheduler) Slots() []domain.Slot {
	return s.slots
}

// Schedule 执行排班
// 先用最小代价匹配得到初始方案并按代价从低到高提交，再按员工顺序贪心补位
func (s *Scheduler) Schedule() (*domain.SchedulingResult, error) {
	st := newState(s.workers, s.Quota())

	noEligibleCandidates := len(s.candidates) == 0
	if !noEligibleCandidates {
		s.commitOptimal(st)
	}
	unassigned := s.backfill(st)

	SortAssignments(st.assignments)

	result := &domain.SchedulingResult{
		Assignments:          st.assignments,
		UnassignedSlots:      unassigned,
		Stats:                ComputeStats(st.assignments, s.preferences),
		Quota:                st.quota,
		NoEligibleCandidates: noEligibleCandidates,
	}

	// 还需要检查一下结果是否满足约束条件
	if err := utils.ValidateSchedulingResult(s.request, result); err != nil {
		return nil, err
	}

	return result, nil
}
