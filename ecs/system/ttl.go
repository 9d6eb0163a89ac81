package system

import (
	"github.com/milk9111/spaceout/ecs"
	"go.uber.org/zap"
)

// TTLSystem flags expired entities for removal. The registry reaps them at
// the end of the tick.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	expired := 0
	expire := func(e ecs.Entity) {
		item, ok := e.(ecs.Expiring)
		if !ok || item.Removed() || !item.Expired() {
			return
		}
		item.Remove()
		expired++
	}

	w.Registry().EachDynamic(func(_ ecs.EntityID, e ecs.Dynamic) {
		expire(e)
	})
	w.Registry().EachPassive(expire)

	if expired > 0 {
		w.Logger().Debug("entities expired", zap.Int("count", expired))
	}
}
