package scene

import (
	"reflect"
	"time"
)

// System is one per-frame behavior. Systems run in registration order.
type System interface {
	Execute(f *Frame)
}

type Frame struct {
	Tick      uint64
	DeltaTime float64
	World     *World
}

type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStats struct {
	name  string
	count int64
	min   time.Duration
	max   time.Duration
	total time.Duration
	last  time.Duration
}

type Scheduler struct {
	systems []System
	stats   []*systemStats
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Register(sys)
	}
	return s
}

func (s *Scheduler) Register(sys System) {
	t := reflect.TypeOf(sys)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.systems = append(s.systems, sys)
	s.stats = append(s.stats, &systemStats{name: t.Name(), min: time.Duration(1<<63 - 1)})
}

func (s *Scheduler) Once(f *Frame) {
	for i, sys := range s.systems {
		start := time.Now()
		sys.Execute(f)
		d := time.Since(start)

		st := s.stats[i]
		st.count++
		st.last = d
		st.total += d
		if d < st.min {
			st.min = d
		}
		if d > st.max {
			st.max = d
		}
	}
}

func (s *Scheduler) Stats() SchedulerStats {
	out := SchedulerStats{SystemCount: len(s.systems), Systems: make([]SystemStats, len(s.stats))}
	for i, st := range s.stats {
		var avg time.Duration
		min := st.min
		if st.count > 0 {
			avg = st.total / time.Duration(st.count)
		} else {
			min = 0
		}
		out.Systems[i] = SystemStats{
			Name:           st.name,
			ExecutionCount: st.count,
			MinDuration:    min,
			MaxDuration:    st.max,
			AvgDuration:    avg,
			LastDuration:   st.last,
			TotalDuration:  st.total,
		}
		out.TotalExecutions += st.count
	}
	return out
}
