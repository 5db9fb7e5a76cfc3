package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestShiftKind_IsAdjacentTo(t *testing.T) {
	assert.True(t, ShiftMorning.IsAdjacentTo(ShiftAfternoon))
	assert.True(t, ShiftNight.IsAdjacentTo(ShiftAfternoon))
	assert.False(t, ShiftMorning.IsAdjacentTo(ShiftNight))
	assert.False(t, ShiftMorning.IsAdjacentTo(ShiftMorning))
}

func TestDay(t *testing.T) {
	assert.Equal(t, 0, DaySunday.Position())
	assert.Equal(t, 6, DaySaturday.Position())
	assert.False(t, Day(0).Valid())
	assert.False(t, Day(8).Valid())
	assert.Equal(t, "周五", DayFriday.String())
}

func TestWeekLayout_Expand(t *testing.T) {
	layout := WeekLayout{WeekdayShifts: 2, FridayShifts: 1, SaturdayShifts: 0, DefaultRequired: 3}

	plans := layout.Expand()

	// 周日到周四 + 周五，周六不开放
	assert.Len(t, plans, 6)
	assert.Equal(t, DaySunday, plans[0].Day)
	assert.Equal(t, []ShiftDemand{{Shift: ShiftMorning, Required: 3}, {Shift: ShiftAfternoon, Required: 3}}, plans[0].Shifts)
	assert.Equal(t, DayFriday, plans[5].Day)
	assert.Equal(t, []ShiftDemand{{Shift: ShiftMorning, Required: 3}}, plans[5].Shifts)

	req := SchedulingRequest{Days: plans}
	assert.Equal(t, 3*(5*2+1), req.TotalSlots())
}

func TestSchedulingRequest_Fingerprint(t *testing.T) {
	req := &SchedulingRequest{
		Workers: []string{"alice"},
		Days: []DayPlan{
			{Day: DaySunday, Shifts: []ShiftDemand{{Shift: ShiftMorning, Required: 1}}},
		},
	}

	a, err := req.Fingerprint()
	assert.NoError(t, err)
	b, err := req.Fingerprint()
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	req.Workers = append(req.Workers, "bob")
	c, err := req.Fingerprint()
	assert.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestPreference_MissingScoreIsUnavailable(t *testing.T) {
	var fromJSON Preference
	require.NoError(t, json.Unmarshal([]byte(`{"worker":"alice","day":1,"shift":"morning"}`), &fromJSON))
	assert.Equal(t, PreferenceUnavailable, fromJSON.Score)
	assert.Equal(t, "alice", fromJSON.Worker)
	assert.Equal(t, ShiftMorning, fromJSON.Shift)

	var fromYAML Preference
	require.NoError(t, yaml.Unmarshal([]byte("{worker: alice, day: 1, shift: morning}"), &fromYAML))
	assert.Equal(t, PreferenceUnavailable, fromYAML.Score)
	assert.Equal(t, DaySunday, fromYAML.Day)

	// 显式给出的 0 仍然是不得已才排
	var lastResort Preference
	require.NoError(t, yaml.Unmarshal([]byte("{worker: alice, day: 1, shift: morning, score: 0}"), &lastResort))
	assert.Equal(t, PreferenceLastResort, lastResort.Score)
}

func TestSchedulingRequest_JSONRoundTripKeepsScores(t *testing.T) {
	req := SchedulingRequest{
		Workers: []string{"alice"},
		Preferences: []Preference{
			{Worker: "alice", Day: DaySunday, Shift: ShiftMorning, Score: 0},
			{Worker: "alice", Day: DaySunday, Shift: ShiftNight, Score: 3},
		},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded SchedulingRequest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, req.Preferences, decoded.Preferences)
}
