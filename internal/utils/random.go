package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName(rng *rand.Rand) string {
	surname := commonSurnames[rng.Intn(len(commonSurnames))]
	nameLength := rng.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rng.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateWorkerNameFromChineseName 将中文名转换成拼音形式的员工名，末尾附加随机数字以降低重名概率
func GenerateWorkerNameFromChineseName(rng *rand.Rand, chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	name := ""

	for _, py := range pinyinArray {
		name += py
	}

	digitsLength := rng.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		name += string(digits[rng.Intn(len(digits))])
	}

	return name
}

// GenerateRandomWorkers 生成 n 个互不重复的员工名
func GenerateRandomWorkers(rng *rand.Rand, n int) []string {
	workers := make([]string, 0, n)
	seen := make(map[string]bool, n)

	for len(workers) < n {
		name := GenerateWorkerNameFromChineseName(rng, GenerateRandomChineseName(rng))
		if seen[name] {
			continue
		}
		seen[name] = true
		workers = append(workers, name)
	}

	return workers
}

// GenerateRandomWeekLayout 随机生成一个周排班结构，保证至少有一天开放班次
func GenerateRandomWeekLayout(rng *rand.Rand, maxRequired int32) domain.WeekLayout {
	layout := domain.WeekLayout{
		WeekdayShifts:   rng.Intn(len(domain.OrderedShiftKinds)) + 1,
		FridayShifts:    rng.Intn(len(domain.OrderedShiftKinds) + 1),
		SaturdayShifts:  rng.Intn(len(domain.OrderedShiftKinds) + 1),
		DefaultRequired: 1,
	}
	if maxRequired > 1 {
		layout.DefaultRequired = rng.Int31n(maxRequired) + 1
	}
	return layout
}

// GenerateRandomPreferences 为每个员工在每个开放的班次上随机生成偏好分数
// unavailableRate 是不可用（-1）的概率，其余分数在 0~3 之间均匀分布
func GenerateRandomPreferences(rng *rand.Rand, workers []string, days []domain.DayPlan, unavailableRate float64) []domain.Preference {
	preferences := make([]domain.Preference, 0)

	for _, w := range workers {
		for _, plan := range days {
			for _, demand := range plan.Shifts {
				score := domain.PreferenceUnavailable
				if rng.Float64() >= unavailableRate {
					score = rng.Int31n(domain.PreferenceHighest + 1)
				}
				preferences = append(preferences, domain.Preference{
					Worker: w,
					Day:    plan.Day,
					Shift:  demand.Shift,
					Score:  score,
				})
			}
		}
	}

	return preferences
}

// GenerateRandomSchedulingRequest 随机生成一份合法的排班输入
func GenerateRandomSchedulingRequest(rng *rand.Rand, workerCount int, maxRequired int32) *domain.SchedulingRequest {
	layout := GenerateRandomWeekLayout(rng, maxRequired)
	days := layout.Expand()

	// 随机调整每个班次的人数，但保证总需求大于 0
	for i := range days {
		for j := range days[i].Shifts {
			days[i].Shifts[j].Required = rng.Int31n(maxRequired + 1)
		}
	}
	days[0].Shifts[0].Required = max(days[0].Shifts[0].Required, 1)

	workers := GenerateRandomWorkers(rng, workerCount)

	return &domain.SchedulingRequest{
		Workers:     workers,
		Days:        days,
		Preferences: GenerateRandomPreferences(rng, workers, days, 0.2),
	}
}

// GenerateRandomRunName 生成排班记录的名称
func GenerateRandomRunName(rng *rand.Rand) string {
	return fmt.Sprintf("排班%s", GenerateRandomID(rng, 3, 3))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(rng *rand.Rand, letterLength int, digitLength int) string {
	randomID := make([]rune, letterLength+digitLength)
	for i := range randomID {
		if i < letterLength {
			randomID[i] = letters[rng.Intn(len(letters))]
		} else {
			randomID[i] = rune(digits[rng.Intn(len(digits))])
		}
	}
	return string(randomID)
}
