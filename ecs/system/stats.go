package system

import (
	"github.com/milk9111/spaceout/ecs"
	"go.uber.org/zap"
)

// StatsSystem logs the registry population every Interval seconds.
type StatsSystem struct {
	Interval float32

	elapsed float32
}

func NewStatsSystem(interval float32) *StatsSystem {
	if interval <= 0 {
		interval = 10
	}
	return &StatsSystem{Interval: interval}
}

func (s *StatsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.elapsed += w.DeltaTime()
	if s.elapsed < s.Interval {
		return
	}
	s.elapsed = 0

	counts := w.Registry().Counts()
	w.Logger().Info("world stats",
		zap.Uint64("tick", w.Ticks()),
		zap.Int("dynamic", counts.Dynamic),
		zap.Int("passive", counts.Passive),
		zap.Int("lights", counts.Lights),
		zap.Int("pending", w.Registry().PendingCount()))
}
