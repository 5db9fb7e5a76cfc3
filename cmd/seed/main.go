package main

import (
	"context"
	"database/sql"
	"flag"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/utils"
	"gopkg.in/yaml.v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var workers int
	var maxRequired int
	var output string
	var seed int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 生成随机排班输入文件, 2: 插入随机排班记录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&workers, "workers", 12, "每份排班输入中的员工数量")
	flag.IntVar(&maxRequired, "max-required", 3, "每个班次最多需要的人数")
	flag.StringVar(&output, "o", "", "排班输入文件的输出路径，为空时输出到标准输出")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "随机数种子")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	rng := rand.New(rand.NewSource(seed))

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		request := utils.GenerateRandomSchedulingRequest(rng, workers, int32(maxRequired))

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				slog.Error("无法创建输出文件", slog.String("error", err.Error()))
				os.Exit(1)
			}
			defer f.Close()
			w = f
		}

		if err := writeRequestYAML(w, request); err != nil {
			slog.Error("无法写入排班输入", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("生成排班输入成功", slog.Int("workers", len(request.Workers)), slog.Int("slots", request.TotalSlots()))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的排班记录数量")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			slog.Error("无法读取配置文件", slog.String("error", err.Error()))
			os.Exit(1)
		}

		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			slog.Error("无法创建数据库连接池", "error", err)
			return
		}
		defer dbpool.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
		if err := dbpool.PingContext(ctx); err != nil {
			slog.Error("无法连接到数据库", "error", err)
			return
		}

		repo := repository.NewRepository(cfg, dbpool)
		parameters := &scheduler.Parameters{
			MaxDemand:   cfg.Scheduler.MaxDemand,
			Parallelism: cfg.Scheduler.Parallelism,
		}

		cnt := 0
		for i := 0; i < n; i++ {
			run, err := generateRandomRun(rng, parameters, workers, int32(maxRequired))
			if err != nil {
				slog.Error("无法生成随机排班记录", slog.String("error", err.Error()))
				continue
			}

			if err := repo.InsertSchedulingRun(run); err != nil {
				slog.Error("无法插入排班记录", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入排班记录成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}

func writeRequestYAML(w io.Writer, request *domain.SchedulingRequest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(request); err != nil {
		return err
	}
	return enc.Close()
}

func generateRandomRun(rng *rand.Rand, parameters *scheduler.Parameters, workers int, maxRequired int32) (*domain.SchedulingRun, error) {
	request := utils.GenerateRandomSchedulingRequest(rng, workers, maxRequired)

	s, err := scheduler.New(parameters, request)
	if err != nil {
		return nil, err
	}
	result, err := s.Schedule()
	if err != nil {
		return nil, err
	}

	fp, err := request.Fingerprint()
	if err != nil {
		return nil, err
	}

	return &domain.SchedulingRun{
		// 名称带上随机后缀，避免违反唯一约束
		Name:        utils.GenerateRandomRunName(rng) + "-" + utils.GenerateRandomID(rng, 2, 4),
		Fingerprint: fp,
		Request:     *request,
		Result:      *result,
	}, nil
}
