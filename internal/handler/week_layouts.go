package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

func (h *Handler) ExpandWeekLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekdayShifts   int   `json:"weekdayShifts" validate:"min=1,max=3"`
		FridayShifts    int   `json:"fridayShifts" validate:"min=0,max=3"`
		SaturdayShifts  int   `json:"saturdayShifts" validate:"min=0,max=3"`
		DefaultRequired int32 `json:"defaultRequired" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.DefaultRequired > h.parameters.MaxDemand {
		h.errorResponse(w, r, "默认需求人数超过了上限")
		return
	}

	layout := domain.WeekLayout{
		WeekdayShifts:   req.WeekdayShifts,
		FridayShifts:    req.FridayShifts,
		SaturdayShifts:  req.SaturdayShifts,
		DefaultRequired: req.DefaultRequired,
	}

	h.successResponse(w, r, "展开周排班结构成功", layout.Expand())
}
