// Package matching 实现最小代价二分图匹配（匈牙利算法）
//
// 代价矩阵可以是任意形状的 M×N 矩阵，结果包含 min(M, N) 个匹配对，
// 每一行、每一列至多被使用一次，且匹配的总代价最小。
package matching

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Pair 表示代价矩阵中的一个匹配 (Row, Col)
type Pair struct {
	Row int
	Col int
}

// MinCost 返回代价矩阵的最小代价匹配，结果按行号升序排列
// 对于相同的输入，结果总是相同的
func MinCost(cost mat.Matrix) []Pair {
	rows, cols := cost.Dims()
	if rows == 0 || cols == 0 {
		return []Pair{}
	}

	// 算法要求行数不大于列数，否则先转置再求解
	if rows > cols {
		pairs := solve(cost.T())
		for i := range pairs {
			pairs[i].Row, pairs[i].Col = pairs[i].Col, pairs[i].Row
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].Row < pairs[j].Row
		})
		return pairs
	}

	return solve(cost)
}

// TotalCost 计算一组匹配在代价矩阵上的总代价
func TotalCost(cost mat.Matrix, pairs []Pair) float64 {
	total := 0.0
	for _, p := range pairs {
		total += cost.At(p.Row, p.Col)
	}
	return total
}

// solve 使用带势函数的最短增广路实现，要求 n <= m，复杂度 O(n^2 m)
// 下标从 1 开始，第 0 列作为虚拟列
func solve(a mat.Matrix) []Pair {
	n, m := a.Dims()
	inf := math.Inf(1)

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)   // p[j]: 第 j 列匹配到的行
	way := make([]int, m+1) // way[j]: 增广路上 j 的前驱列

	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := a.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// 沿增广路回溯，翻转匹配
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	pairs := make([]Pair, 0, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			pairs = append(pairs, Pair{Row: p[j] - 1, Col: j - 1})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Row < pairs[j].Row
	})

	return pairs
}
