package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/scheduler"
)

const sampleRequest = `
workers: [alice, bob]
days:
  - day: 1
    shifts:
      - shift: morning
        required: 1
      - shift: afternoon
        required: 1
preferences:
  - {worker: alice, day: 1, shift: morning, score: 3}
  - {worker: alice, day: 1, shift: afternoon, score: 3}
  - {worker: bob, day: 1, shift: afternoon, score: 2}
`

func TestReadRequestYAML(t *testing.T) {
	request, err := readRequestYAML(strings.NewReader(sampleRequest))
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, request.Workers)
	require.Len(t, request.Days, 1)
	assert.Equal(t, domain.DaySunday, request.Days[0].Day)
	assert.Equal(t, domain.ShiftAfternoon, request.Days[0].Shifts[1].Shift)
	assert.Equal(t, 2, request.TotalSlots())
	assert.Len(t, request.Preferences, 3)
}

func TestReadRequestYAML_UnknownField(t *testing.T) {
	_, err := readRequestYAML(strings.NewReader("workers: [alice]\nweeks: 2\n"))
	assert.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	request, err := readRequestYAML(strings.NewReader(sampleRequest))
	require.NoError(t, err)

	s, err := scheduler.New(nil, request)
	require.NoError(t, err)
	result, err := s.Schedule()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "周日")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "高偏好班次: 1 / 2 (50.00%)")
}

func TestReadRequestYAML_MissingScoreIsUnavailable(t *testing.T) {
	request, err := readRequestYAML(strings.NewReader(`
workers: [alice]
days:
  - day: 1
    shifts:
      - shift: morning
        required: 1
preferences:
  - {worker: alice, day: 1, shift: morning}
`))
	require.NoError(t, err)
	require.Len(t, request.Preferences, 1)
	assert.Equal(t, domain.PreferenceUnavailable, request.Preferences[0].Score)

	s, err := scheduler.New(nil, request)
	require.NoError(t, err)
	result, err := s.Schedule()
	require.NoError(t, err)

	assert.Empty(t, result.Assignments)
	assert.Equal(t, []domain.Slot{{Day: domain.DaySunday, Shift: domain.ShiftMorning, Index: 0}}, result.UnassignedSlots)
	assert.True(t, result.NoEligibleCandidates)
}
