package handler

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/scheduler"
)

type shiftDemandRequest struct {
	Shift    string `json:"shift" validate:"required,oneof=morning afternoon night"`
	Required int32  `json:"required" validate:"min=0"`
}

type dayPlanRequest struct {
	Day    int32                `json:"day" validate:"required,min=1,max=7"`
	Shifts []shiftDemandRequest `json:"shifts" validate:"required,dive"`
}

type preferenceRequest struct {
	Worker string `json:"worker" validate:"required"`
	Day    int32  `json:"day" validate:"required,min=1,max=7"`
	Shift  string `json:"shift" validate:"required,oneof=morning afternoon night"`
	Score  *int32 `json:"score" validate:"omitempty,min=-1,max=3"`
}

type schedulingRequest struct {
	Workers     []string            `json:"workers" validate:"required,min=1,dive,required"`
	Days        []dayPlanRequest    `json:"days" validate:"required,min=1,dive"`
	Preferences []preferenceRequest `json:"preferences" validate:"dive"`
}

func (req *schedulingRequest) toDomain() *domain.SchedulingRequest {
	request := &domain.SchedulingRequest{
		Workers:     req.Workers,
		Days:        make([]domain.DayPlan, len(req.Days)),
		Preferences: make([]domain.Preference, len(req.Preferences)),
	}

	for i, plan := range req.Days {
		request.Days[i] = domain.DayPlan{
			Day:    domain.Day(plan.Day),
			Shifts: make([]domain.ShiftDemand, len(plan.Shifts)),
		}
		for j, demand := range plan.Shifts {
			request.Days[i].Shifts[j] = domain.ShiftDemand{
				Shift:    domain.ShiftKind(demand.Shift),
				Required: demand.Required,
			}
		}
	}

	for i, p := range req.Preferences {
		// 没有给出分数的偏好按不可用处理
		score := domain.PreferenceUnavailable
		if p.Score != nil {
			score = *p.Score
		}
		request.Preferences[i] = domain.Preference{
			Worker: p.Worker,
			Day:    domain.Day(p.Day),
			Shift:  domain.ShiftKind(p.Shift),
			Score:  score,
		}
	}

	return request
}

func resultCacheKey(fp string) string {
	return fmt.Sprintf("scheduling_run_%s", fp)
}

func (h *Handler) CreateSchedulingRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string            `json:"name" validate:"required,max=100"`
		Request schedulingRequest `json:"request"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := req.Request.toDomain()

	// 在查询缓存之前先检查输入，输入不合法时直接拒绝
	s, err := scheduler.New(h.parameters, request)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	fp, err := request.Fingerprint()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 相同的输入已经排过班时沿用之前的结果，但仍然按本次的名称保存一条新记录
	cached, _ := h.cachedSchedulingRun(r.Context(), fp)

	run, err := newSchedulingRun(req.Name, fp, request, s, cached)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.InsertSchedulingRun(run); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "scheduling_runs_name_key":
				h.errorResponse(w, r, "排班名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 缓存失败不影响本次排班
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()
	if err := h.redisClient.Set(ctx, resultCacheKey(fp), run.ID, time.Duration(h.config.Redis.ResultExpiration)*time.Second).Err(); err != nil {
		slog.Error("无法缓存排班记录", "id", run.ID, "error", err)
	}

	if len(run.Result.UnassignedSlots) > 0 {
		if err := h.publishUnassignedSlotsMail(r.Context(), run); err != nil {
			slog.Error("无法发送缺人提醒邮件", "id", run.ID, "error", err)
		}
	}

	if cached != nil {
		h.successResponse(w, r, fmt.Sprintf("排班成功，沿用了相同输入的排班记录 %s 的结果", cached.Name), run)
		return
	}
	h.successResponse(w, r, "排班成功", run)
}

// newSchedulingRun 组装待保存的排班记录
// cached 不为空时直接沿用它的结果，不再运行排班
func newSchedulingRun(name string, fp string, request *domain.SchedulingRequest, s *scheduler.Scheduler, cached *domain.SchedulingRun) (*domain.SchedulingRun, error) {
	var result domain.SchedulingResult
	if cached != nil {
		result = cached.Result
	} else {
		scheduled, err := s.Schedule()
		if err != nil {
			return nil, err
		}
		result = *scheduled
	}

	for _, slot := range result.UnassignedSlots {
		slog.Warn("班次没有安排到人", "name", name, "day", slot.Day.String(), "shift", slot.Shift.DisplayName(), "index", slot.Index)
	}

	return &domain.SchedulingRun{
		Name:        name,
		Fingerprint: fp,
		Request:     *request,
		Result:      result,
	}, nil
}

// cachedSchedulingRun 根据输入指纹查找之前的排班记录
func (h *Handler) cachedSchedulingRun(ctx context.Context, fp string) (*domain.SchedulingRun, bool) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	runID, err := h.redisClient.Get(ctx, resultCacheKey(fp)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("无法读取排班缓存", "error", err)
		}
		return nil, false
	}

	run, err := h.repository.GetSchedulingRunByID(runID)
	if err != nil {
		// 记录可能已经被删除了
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("无法读取缓存对应的排班记录", "id", runID, "error", err)
		}
		return nil, false
	}

	return run, true
}

// unassignedSlotsMail 生成发给管理员的缺人提醒邮件，同一个 (day, shift) 的缺口合并成一行
func (h *Handler) unassignedSlotsMail(run *domain.SchedulingRun) domain.MailMessage {
	groups := scheduler.GroupUnassignedSlots(run.Result.UnassignedSlots)
	items := make([]domain.UnassignedSlotItem, len(groups))
	for i, g := range groups {
		items[i] = domain.UnassignedSlotItem{
			Day:   g.Day.String(),
			Shift: g.Shift.DisplayName(),
			Count: g.Count,
		}
	}

	return domain.MailMessage{
		Type: "unassigned_slots",
		To:   h.config.InitialAdmin.Email,
		Data: domain.UnassignedSlotsMailData{
			FullName:      h.config.InitialAdmin.FullName,
			RunID:         run.ID,
			RunName:       run.Name,
			TotalAssigned: run.Result.Stats.TotalAssigned,
			Items:         items,
		},
	}
}

func (h *Handler) publishUnassignedSlotsMail(ctx context.Context, run *domain.SchedulingRun) error {
	mailMessage := h.unassignedSlotsMail(run)

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   time.Now(),
			Body:        mailData,
		},
	)
}

func (h *Handler) GetAllSchedulingRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repository.GetAllSchedulingRuns()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有排班记录成功", runs)
}

func (h *Handler) GetSchedulingRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(SchedulingRunCtx).(*domain.SchedulingRun)

	h.successResponse(w, r, "获取排班记录成功", run)
}

func (h *Handler) DeleteSchedulingRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(SchedulingRunCtx).(*domain.SchedulingRun)

	if err := h.repository.DeleteSchedulingRun(run.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 删除缓存，避免之后命中已经不存在的记录
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()
	if err := h.redisClient.Del(ctx, resultCacheKey(run.Fingerprint)).Err(); err != nil {
		slog.Error("无法删除排班缓存", "id", run.ID, "error", err)
	}

	h.successResponse(w, r, "删除排班记录成功", nil)
}

// ExportSchedulingRun 以 CSV 文件的形式下载排班结果
func (h *Handler) ExportSchedulingRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(SchedulingRunCtx).(*domain.SchedulingRun)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="scheduling-run-%s.csv"`, strconv.FormatInt(run.ID, 10)))
	w.WriteHeader(http.StatusOK)

	if err := writeAssignmentsCSV(w, run.Result.Assignments); err != nil {
		// 响应头已经写出，只能记录日志
		h.logInternalServerError(r, err)
	}
}

func writeAssignmentsCSV(w io.Writer, assignments []domain.Assignment) error {
	// 写入 BOM，这样 Excel 打开时不会乱码
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"日期", "班次", "员工"}); err != nil {
		return err
	}
	for _, a := range assignments {
		if err := writer.Write([]string{a.Day.String(), a.Shift.DisplayName(), a.Worker}); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}
