package utils

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

func validRequest() *domain.SchedulingRequest {
	return &domain.SchedulingRequest{
		Workers: []string{"alice", "bob"},
		Days: []domain.DayPlan{
			{Day: domain.DaySunday, Shifts: []domain.ShiftDemand{
				{Shift: domain.ShiftMorning, Required: 1},
				{Shift: domain.ShiftNight, Required: 2},
			}},
		},
		Preferences: []domain.Preference{
			{Worker: "alice", Day: domain.DaySunday, Shift: domain.ShiftMorning, Score: 3},
			{Worker: "alice", Day: domain.DaySunday, Shift: domain.ShiftNight, Score: 1},
			{Worker: "bob", Day: domain.DaySunday, Shift: domain.ShiftNight, Score: 0},
		},
	}
}

func TestValidateSchedulingRequest(t *testing.T) {
	require.NoError(t, ValidateSchedulingRequest(validRequest(), domain.MaxSlotDemand))

	tests := []struct {
		name   string
		mutate func(r *domain.SchedulingRequest)
	}{
		{"没有员工", func(r *domain.SchedulingRequest) { r.Workers = []string{} }},
		{"员工名字为空", func(r *domain.SchedulingRequest) { r.Workers = append(r.Workers, "") }},
		{"员工重复", func(r *domain.SchedulingRequest) { r.Workers = append(r.Workers, "alice") }},
		{"非法日期", func(r *domain.SchedulingRequest) { r.Days[0].Day = 8 }},
		{"日期重复", func(r *domain.SchedulingRequest) { r.Days = append(r.Days, r.Days[0]) }},
		{"非法班次", func(r *domain.SchedulingRequest) { r.Days[0].Shifts[0].Shift = "evening" }},
		{"班次重复", func(r *domain.SchedulingRequest) { r.Days[0].Shifts[1].Shift = domain.ShiftMorning }},
		{"需求为负数", func(r *domain.SchedulingRequest) { r.Days[0].Shifts[0].Required = -1 }},
		{"需求超过上限", func(r *domain.SchedulingRequest) { r.Days[0].Shifts[0].Required = domain.MaxSlotDemand + 1 }},
		{"总需求为 0", func(r *domain.SchedulingRequest) {
			r.Days[0].Shifts[0].Required = 0
			r.Days[0].Shifts[1].Required = 0
		}},
		{"偏好中的员工不存在", func(r *domain.SchedulingRequest) { r.Preferences[0].Worker = "carol" }},
		{"偏好对应的班次没有开放", func(r *domain.SchedulingRequest) { r.Preferences[0].Shift = domain.ShiftAfternoon }},
		{"偏好分数过大", func(r *domain.SchedulingRequest) { r.Preferences[0].Score = 4 }},
		{"偏好分数过小", func(r *domain.SchedulingRequest) { r.Preferences[0].Score = -2 }},
		{"偏好重复", func(r *domain.SchedulingRequest) { r.Preferences = append(r.Preferences, r.Preferences[0]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := ValidateSchedulingRequest(req, domain.MaxSlotDemand)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}

	assert.True(t, errors.Is(ValidateSchedulingRequest(nil, domain.MaxSlotDemand), domain.ErrInvalidInput))
}

func slot(day domain.Day, shift domain.ShiftKind, index int) domain.Slot {
	return domain.Slot{Day: day, Shift: shift, Index: index}
}

func assign(worker string, s domain.Slot) domain.Assignment {
	return domain.Assignment{Day: s.Day, Shift: s.Shift, Worker: worker, Slot: s}
}

func TestValidateSchedulingResult(t *testing.T) {
	req := validRequest()

	ok := &domain.SchedulingResult{
		Assignments: []domain.Assignment{
			assign("alice", slot(domain.DaySunday, domain.ShiftMorning, 0)),
			assign("alice", slot(domain.DaySunday, domain.ShiftNight, 0)),
			assign("bob", slot(domain.DaySunday, domain.ShiftNight, 1)),
		},
		UnassignedSlots: []domain.Slot{},
	}
	require.NoError(t, ValidateSchedulingResult(req, ok))

	tests := []struct {
		name   string
		result *domain.SchedulingResult
	}{
		{
			name: "数量不一致",
			result: &domain.SchedulingResult{
				Assignments: []domain.Assignment{assign("alice", slot(domain.DaySunday, domain.ShiftMorning, 0))},
			},
		},
		{
			name: "slot 重复",
			result: &domain.SchedulingResult{
				Assignments: []domain.Assignment{
					assign("alice", slot(domain.DaySunday, domain.ShiftNight, 0)),
					assign("bob", slot(domain.DaySunday, domain.ShiftNight, 0)),
				},
				UnassignedSlots: []domain.Slot{slot(domain.DaySunday, domain.ShiftMorning, 0)},
			},
		},
		{
			name: "同一员工重复填补同一班次",
			result: &domain.SchedulingResult{
				Assignments: []domain.Assignment{
					assign("alice", slot(domain.DaySunday, domain.ShiftNight, 0)),
					assign("alice", slot(domain.DaySunday, domain.ShiftNight, 1)),
				},
				UnassignedSlots: []domain.Slot{slot(domain.DaySunday, domain.ShiftMorning, 0)},
			},
		},
		{
			name: "员工不可用",
			result: &domain.SchedulingResult{
				Assignments: []domain.Assignment{
					assign("bob", slot(domain.DaySunday, domain.ShiftMorning, 0)),
				},
				UnassignedSlots: []domain.Slot{slot(domain.DaySunday, domain.ShiftNight, 0), slot(domain.DaySunday, domain.ShiftNight, 1)},
			},
		},
		{
			name: "slot 不存在",
			result: &domain.SchedulingResult{
				Assignments: []domain.Assignment{
					assign("alice", slot(domain.DaySunday, domain.ShiftNight, 2)),
				},
				UnassignedSlots: []domain.Slot{slot(domain.DaySunday, domain.ShiftMorning, 0), slot(domain.DaySunday, domain.ShiftNight, 0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateSchedulingResult(req, tt.result))
		})
	}
}

func TestValidateSchedulingResult_Adjacency(t *testing.T) {
	req := &domain.SchedulingRequest{
		Workers: []string{"alice"},
		Days: []domain.DayPlan{
			{Day: domain.DayMonday, Shifts: []domain.ShiftDemand{
				{Shift: domain.ShiftAfternoon, Required: 1},
				{Shift: domain.ShiftNight, Required: 1},
			}},
		},
		Preferences: []domain.Preference{
			{Worker: "alice", Day: domain.DayMonday, Shift: domain.ShiftAfternoon, Score: 2},
			{Worker: "alice", Day: domain.DayMonday, Shift: domain.ShiftNight, Score: 2},
		},
	}

	result := &domain.SchedulingResult{
		Assignments: []domain.Assignment{
			assign("alice", slot(domain.DayMonday, domain.ShiftAfternoon, 0)),
			assign("alice", slot(domain.DayMonday, domain.ShiftNight, 0)),
		},
	}

	assert.Error(t, ValidateSchedulingResult(req, result))
}

func TestGenerateRandomSchedulingRequest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		req := GenerateRandomSchedulingRequest(rng, 5, 3)
		assert.Len(t, req.Workers, 5)
		assert.NoError(t, ValidateSchedulingRequest(req, 3))
	}
}
