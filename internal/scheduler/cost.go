package scheduler

import (
	"runtime"

	"gonum.org/v1/gonum/mat"
	"golang.org/x/sync/errgroup"
)

const (
	// LastResortCost 是偏好为 0（不得已才排）时的代价
	LastResortCost = 100.0
	// ImpossibleCost 表示行和列的 (day, shift) 不一致，这样的配对不可能成立
	ImpossibleCost = 1e6
)

// PreferenceCost 将偏好分数转换成代价，偏好越高代价越低
// 不可用（分数小于 0）时第二个返回值为 false，这样的组合根本不会成为候选行
func PreferenceCost(score int32) (float64, bool) {
	switch {
	case score < 0:
		return 0, false
	case score == 0:
		return LastResortCost, true
	default:
		return float64(4 - score), true
	}
}

// buildCostMatrix 构建 候选行 × slot 列 的代价矩阵
// 每一行互相独立，因此按行并发构建
func (s *Scheduler) buildCostMatrix() *mat.Dense {
	rows, cols := len(s.candidates), len(s.slots)
	cost := mat.NewDense(rows, cols, nil)

	limit := s.parameters.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for r := range s.candidates {
		g.Go(func() error {
			c := s.candidates[r]
			// 候选行生成时已经排除了不可用的组合
			rowCost, _ := PreferenceCost(c.score)

			for col, slot := range s.slots {
				if slot.Day == c.day && slot.Shift == c.shift {
					cost.Set(r, col, rowCost)
				} else {
					cost.Set(r, col, ImpossibleCost)
				}
			}
			return nil
		})
	}

	// 所有任务都不会返回错误
	_ = g.Wait()

	return cost
}
