package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

func TestPreferenceCost(t *testing.T) {
	tests := []struct {
		score     int32
		cost      float64
		available bool
	}{
		{score: -1, cost: 0, available: false},
		{score: 0, cost: LastResortCost, available: true},
		{score: 1, cost: 3, available: true},
		{score: 2, cost: 2, available: true},
		{score: 3, cost: 1, available: true},
	}

	for _, tt := range tests {
		cost, ok := PreferenceCost(tt.score)
		assert.Equal(t, tt.available, ok, "score=%d", tt.score)
		assert.Equal(t, tt.cost, cost, "score=%d", tt.score)
	}

	assert.Less(t, LastResortCost*1000, ImpossibleCost+1)
}

func TestBuildCostMatrix(t *testing.T) {
	req := &domain.SchedulingRequest{
		Workers: []string{"alice", "bob"},
		Days: []domain.DayPlan{
			{Day: domain.DaySunday, Shifts: []domain.ShiftDemand{
				{Shift: domain.ShiftMorning, Required: 2},
				{Shift: domain.ShiftNight, Required: 1},
			}},
		},
		Preferences: []domain.Preference{
			{Worker: "alice", Day: domain.DaySunday, Shift: domain.ShiftMorning, Score: 3},
			{Worker: "alice", Day: domain.DaySunday, Shift: domain.ShiftNight, Score: 0},
			{Worker: "bob", Day: domain.DaySunday, Shift: domain.ShiftMorning, Score: -1},
			// bob 的晚班没有指定偏好，视为不可用
		},
	}

	s, err := New(&Parameters{MaxDemand: 10, Parallelism: 2}, req)
	require.NoError(t, err)

	// bob 没有任何可用的组合，因此只有 alice 的两行
	require.Len(t, s.candidates, 2)
	require.Len(t, s.slots, 3)

	cost := s.buildCostMatrix()
	rows, cols := cost.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)

	// 第 0 行：alice 早班，第 1 行：alice 晚班
	assert.Equal(t, []float64{1, 1, ImpossibleCost}, cost.RawRowView(0))
	assert.Equal(t, []float64{ImpossibleCost, ImpossibleCost, LastResortCost}, cost.RawRowView(1))
}
