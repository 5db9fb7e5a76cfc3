package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
)

func (r *Repository) InsertSchedulingRun(run *domain.SchedulingRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	request, err := json.Marshal(run.Request)
	if err != nil {
		return err
	}

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO scheduling_runs (
			name,
			fingerprint,
			request,
			quota,
			no_eligible_candidates,
			high_preference_count,
			total_assigned,
			percentage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	params := []any{
		run.Name,
		run.Fingerprint,
		request,
		run.Result.Quota,
		run.Result.NoEligibleCandidates,
		run.Result.Stats.HighPreferenceCount,
		run.Result.Stats.TotalAssigned,
		run.Result.Stats.Percentage,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&run.ID, &run.CreatedAt, &run.Version); err != nil {
		return err
	}

	// 排班结果已经是排好序的，按插入顺序保存即可
	for _, a := range run.Result.Assignments {
		query := `
			INSERT INTO scheduling_run_assignments (run_id, day_of_week, shift, slot_index, worker)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, run.ID, a.Day, a.Shift, a.Slot.Index, a.Worker); err != nil {
			return err
		}
	}

	for _, slot := range run.Result.UnassignedSlots {
		query := `
			INSERT INTO scheduling_run_unassigned_slots (run_id, day_of_week, shift, slot_index)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, run.ID, slot.Day, slot.Shift, slot.Index); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllSchedulingRuns() ([]*domain.SchedulingRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 列表中不需要每次排班的详细结果，只返回统计信息
	query := `
		SELECT
			id,
			name,
			fingerprint,
			quota,
			no_eligible_candidates,
			high_preference_count,
			total_assigned,
			percentage,
			created_at,
			version
		FROM scheduling_runs
		ORDER BY id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.SchedulingRun, 0)
	for rows.Next() {
		run := &domain.SchedulingRun{}

		dst := []any{
			&run.ID,
			&run.Name,
			&run.Fingerprint,
			&run.Result.Quota,
			&run.Result.NoEligibleCandidates,
			&run.Result.Stats.HighPreferenceCount,
			&run.Result.Stats.TotalAssigned,
			&run.Result.Stats.Percentage,
			&run.CreatedAt,
			&run.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *Repository) GetSchedulingRunByID(id int64) (*domain.SchedulingRun, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			name,
			fingerprint,
			request,
			quota,
			no_eligible_candidates,
			high_preference_count,
			total_assigned,
			percentage,
			created_at,
			version
		FROM scheduling_runs
		WHERE id = $1
	`

	run := &domain.SchedulingRun{ID: id}
	var request []byte

	dst := []any{
		&run.Name,
		&run.Fingerprint,
		&request,
		&run.Result.Quota,
		&run.Result.NoEligibleCandidates,
		&run.Result.Stats.HighPreferenceCount,
		&run.Result.Stats.TotalAssigned,
		&run.Result.Stats.Percentage,
		&run.CreatedAt,
		&run.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(request, &run.Request); err != nil {
		return nil, err
	}

	// 读取具体的安排
	query = `
		SELECT day_of_week, shift, slot_index, worker
		FROM scheduling_run_assignments
		WHERE run_id = $1
		ORDER BY id
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Result.Assignments = make([]domain.Assignment, 0)
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.Day, &a.Shift, &a.Slot.Index, &a.Worker); err != nil {
			return nil, err
		}
		a.Slot.Day = a.Day
		a.Slot.Shift = a.Shift
		run.Result.Assignments = append(run.Result.Assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 读取没有安排到人的 slot
	query = `
		SELECT day_of_week, shift, slot_index
		FROM scheduling_run_unassigned_slots
		WHERE run_id = $1
		ORDER BY id
	`
	slotRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer slotRows.Close()

	run.Result.UnassignedSlots = make([]domain.Slot, 0)
	for slotRows.Next() {
		var slot domain.Slot
		if err := slotRows.Scan(&slot.Day, &slot.Shift, &slot.Index); err != nil {
			return nil, err
		}
		run.Result.UnassignedSlots = append(run.Result.UnassignedSlots, slot)
	}
	if err := slotRows.Err(); err != nil {
		return nil, err
	}

	return run, nil
}

func (r *Repository) DeleteSchedulingRun(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM scheduling_runs WHERE id = $1`

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
