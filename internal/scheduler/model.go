package scheduler

import "github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"

// 排班参数
type Parameters struct {
	MaxDemand   int32 // 单个 (day, shift) 所需人数的上限
	Parallelism int   // 构建代价矩阵时的最大并发数，小于等于 0 时使用 CPU 数量
}

func DefaultParameters() *Parameters {
	return &Parameters{
		MaxDemand:   domain.MaxSlotDemand,
		Parallelism: 0,
	}
}

// shiftKey 唯一确定某个员工在某天的某个班次
type shiftKey struct {
	worker string
	day    domain.Day
	shift  domain.ShiftKind
}

// candidate 是代价矩阵中的一行：员工在某个可用的 (day, shift) 上的一个副本
type candidate struct {
	worker string
	day    domain.Day
	shift  domain.ShiftKind
	score  int32
}

// state 记录排班过程中已经提交的结果
type state struct {
	quota int

	usedWorkerShiftKeys map[shiftKey]struct{}
	usedSlots           map[domain.Slot]struct{}
	workerLoad          map[string]int
	workerDailyShifts   map[string]map[domain.Day][]domain.ShiftKind

	assignments []domain.Assignment
}

func newState(workers []string, quota int) *state {
	st := &state{
		quota:               quota,
		usedWorkerShiftKeys: make(map[shiftKey]struct{}),
		usedSlots:           make(map[domain.Slot]struct{}),
		workerLoad:          make(map[string]int, len(workers)),
		workerDailyShifts:   make(map[string]map[domain.Day][]domain.ShiftKind, len(workers)),
		assignments:         make([]domain.Assignment, 0),
	}

	for _, w := range workers {
		st.workerLoad[w] = 0
		st.workerDailyShifts[w] = make(map[domain.Day][]domain.ShiftKind)
	}

	return st
}
