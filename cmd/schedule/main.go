package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/scheduler"
	"gopkg.in/yaml.v3"
)

func main() {
	var file string
	var parallelism int

	flag.StringVar(&file, "f", "", "YAML 格式的排班输入文件")
	flag.IntVar(&parallelism, "parallelism", 0, "构建代价矩阵时的并发数，0 表示使用 CPU 核数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if file == "" {
		slog.Error("请使用 -f 指定排班输入文件")
		os.Exit(2)
	}

	f, err := os.Open(file)
	if err != nil {
		slog.Error("无法打开排班输入文件", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	request, err := readRequestYAML(f)
	if err != nil {
		slog.Error("无法解析排班输入文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	parameters := scheduler.DefaultParameters()
	parameters.Parallelism = parallelism

	s, err := scheduler.New(parameters, request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			slog.Error("排班输入不合法", slog.String("error", err.Error()))
			os.Exit(2)
		}
		slog.Error("无法创建排班器", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := s.Schedule()
	if err != nil {
		slog.Error("排班失败", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if result.NoEligibleCandidates {
		slog.Warn("没有任何员工对开放的班次给出非负偏好")
	}
	for _, g := range scheduler.GroupUnassignedSlots(result.UnassignedSlots) {
		slog.Warn("班次没有安排到人", "day", g.Day.String(), "shift", g.Shift.DisplayName(), "count", g.Count)
	}

	if err := printResult(os.Stdout, result); err != nil {
		slog.Error("无法输出排班结果", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func readRequestYAML(r io.Reader) (*domain.SchedulingRequest, error) {
	request := &domain.SchedulingRequest{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(request); err != nil {
		return nil, err
	}
	return request, nil
}

func printResult(w io.Writer, result *domain.SchedulingResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "日期\t班次\t员工")
	for _, a := range result.Assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Day.String(), a.Shift.DisplayName(), a.Worker)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n高偏好班次: %d / %d (%.2f%%)\n", result.Stats.HighPreferenceCount, result.Stats.TotalAssigned, result.Stats.Percentage)
	return err
}
