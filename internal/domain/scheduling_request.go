package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// MaxSlotDemand 是单个 (day, shift) 所需人数的默认上限
const MaxSlotDemand int32 = 10

// PreferenceUnavailable 表示不可用，未指定的偏好一律按此处理
const (
	PreferenceUnavailable int32 = -1
	PreferenceLastResort  int32 = 0
	PreferenceHighest     int32 = 3
)

type ShiftDemand struct {
	Shift    ShiftKind `json:"shift" yaml:"shift"`
	Required int32     `json:"required" yaml:"required"`
}

// DayPlan 描述某一天开放哪些班次以及每个班次需要的人数
type DayPlan struct {
	Day    Day           `json:"day" yaml:"day"`
	Shifts []ShiftDemand `json:"shifts" yaml:"shifts"`
}

type Preference struct {
	Worker string    `json:"worker" yaml:"worker"`
	Day    Day       `json:"day" yaml:"day"`
	Shift  ShiftKind `json:"shift" yaml:"shift"`
	Score  int32     `json:"score" yaml:"score"`
}

// 解码时没有给出 score 的偏好按不可用处理，而不是 int32 的零值（不得已才排）
type rawPreference Preference

func (p *Preference) UnmarshalJSON(data []byte) error {
	raw := rawPreference{Score: PreferenceUnavailable}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Preference(raw)
	return nil
}

func (p *Preference) UnmarshalYAML(value *yaml.Node) error {
	raw := rawPreference{Score: PreferenceUnavailable}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = Preference(raw)
	return nil
}

// SchedulingRequest 是一次排班的全部输入
// Workers 的顺序有意义，补位阶段按这个顺序扫描
type SchedulingRequest struct {
	Workers     []string     `json:"workers" yaml:"workers"`
	Days        []DayPlan    `json:"days" yaml:"days"`
	Preferences []Preference `json:"preferences" yaml:"preferences"`
}

// TotalSlots 计算所有班次需求人数之和
func (r *SchedulingRequest) TotalSlots() int {
	total := 0
	for _, plan := range r.Days {
		for _, demand := range plan.Shifts {
			total += int(demand.Required)
		}
	}
	return total
}

// Fingerprint 计算输入的指纹，排班是确定性的，相同指纹的输入一定得到相同的结果
func (r *SchedulingRequest) Fingerprint() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WeekLayout 是常见的周排班结构：周日到周四为常规工作日，周五、周六可选
// 每个数量表示当天开放前几个班次（按 早班、午班、晚班 的顺序）
type WeekLayout struct {
	WeekdayShifts   int   `json:"weekdayShifts" yaml:"weekdayShifts"`
	FridayShifts    int   `json:"fridayShifts" yaml:"fridayShifts"`
	SaturdayShifts  int   `json:"saturdayShifts" yaml:"saturdayShifts"`
	DefaultRequired int32 `json:"defaultRequired" yaml:"defaultRequired"`
}

// Expand 将 WeekLayout 展开成按天的排班需求，开放 0 个班次的日期不会出现在结果中
func (l WeekLayout) Expand() []DayPlan {
	plans := make([]DayPlan, 0, len(OrderedDays))

	for _, day := range OrderedDays {
		n := l.WeekdayShifts
		switch day {
		case DayFriday:
			n = l.FridayShifts
		case DaySaturday:
			n = l.SaturdayShifts
		}
		n = max(0, min(n, len(OrderedShiftKinds)))
		if n == 0 {
			continue
		}

		plan := DayPlan{
			Day:    day,
			Shifts: make([]ShiftDemand, n),
		}
		for i := 0; i < n; i++ {
			plan.Shifts[i] = ShiftDemand{
				Shift:    OrderedShiftKinds[i],
				Required: l.DefaultRequired,
			}
		}
		plans = append(plans, plan)
	}

	return plans
}
