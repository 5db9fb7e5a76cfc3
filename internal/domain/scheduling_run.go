package domain

import "time"

// SchedulingRun 是保存到数据库中的一次排班记录
type SchedulingRun struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Fingerprint string            `json:"fingerprint"`
	Request     SchedulingRequest `json:"request"`
	Result      SchedulingResult  `json:"result"`
	CreatedAt   time.Time         `json:"createdAt"`
	Version     int32             `json:"-"`
}
