package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type UnassignedSlotItem struct {
	Day   string `json:"day"`
	Shift string `json:"shift"`
	Count int    `json:"count"`
}

type UnassignedSlotsMailData struct {
	FullName      string               `json:"fullName"`
	RunID         int64                `json:"runID"`
	RunName       string               `json:"runName"`
	TotalAssigned int                  `json:"totalAssigned"`
	Items         []UnassignedSlotItem `json:"items"`
}
