package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/scenegraph/ecs"
)

type Report struct {
	// Configuration
	Config Config

	// Results
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    Stats
	World         ecs.WorldStats
	Scheduler     *ecs.SchedulerStats
	Roots         int
	MaxDepth      int
	Destroyed     int
	Created       int
	DrawItems     int
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Scene Graph Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Nodes:** {{.Config.Entities}} (depth {{.Config.Depth}}, fan-out {{.Config.FanOut}})
- **Churn per Tick:** {{.Config.Churn}}
- **Seed:** {{.Config.Seed}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Tick):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{- with .Scheduler}}

## Systems
{{- range .Systems}}
- **{{.Name}}** (priority {{.Priority}}): {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{- end}}
{{- end}}

## World {{.World.ID}}
- **Live Entities:** {{.World.EntityCount}} (capacity {{.World.IndexCapacity}}, {{.World.FreeIndices}} free)
- **Roots:** {{.Roots}}, **Max Depth:** {{.MaxDepth}}
- **Churned:** {{.Destroyed}} destroyed, {{.Created}} created
- **Draw Items (last tick):** {{.DrawItems}}
{{- range .World.StoreBreakdown}}
- Store {{.Name}}: {{.Count}} components, {{.FreeSlots}} free of {{.Capacity}}
{{- end}}
{{- range .World.Families}}
- Family {{.Filter}}: {{.Members}} members
{{- end}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} B
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} B
- Sys Memory:     {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{ns (nsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
`

var reportFuncs = template.FuncMap{
	"mb": func(v uint64) string {
		return fmt.Sprintf("%.2f", float64(v)/1024/1024)
	},
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"nsub": func(a, b uint64) uint64 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
