package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type expiring struct {
	ecs.Base
	expired bool
}

func (e *expiring) Expired() bool { return e.expired }

type expiringDynamic struct {
	expiring
}

func (e *expiringDynamic) Body() ecs.BodyHandle { return 0 }

func TestTTLSystem(t *testing.T) {
	cases := []struct {
		name        string
		expired     bool
		preRemoved  bool
		wantRemoved bool
	}{
		{"live", false, false, false},
		{"expired", true, false, true},
		{"already_removed", true, true, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld(nil, nil, 1)
			passive := &expiring{Base: ecs.NewBase("p", mgl32.Vec3{}), expired: c.expired}
			dynamic := &expiringDynamic{expiring{Base: ecs.NewBase("d", mgl32.Vec3{}), expired: c.expired}}
			if c.preRemoved {
				passive.Remove()
				dynamic.Remove()
			}
			w.Registry().RegisterPassive(passive)
			w.Registry().RegisterDynamic(dynamic)
			w.Registry().CommitPending()

			NewTTLSystem().Update(w)
			if passive.Removed() != c.wantRemoved || dynamic.Removed() != c.wantRemoved {
				t.Fatalf("expected removed=%v, got passive %v dynamic %v",
					c.wantRemoved, passive.Removed(), dynamic.Removed())
			}
		})
	}
}

func TestTTLSystemReapedAtEndOfTick(t *testing.T) {
	w := ecs.NewWorld(nil, nil, 1)
	w.AddSystem(NewTTLSystem())
	w.Registry().RegisterDynamic(&expiringDynamic{expiring{Base: ecs.NewBase("d", mgl32.Vec3{}), expired: true}})

	w.Tick(0.1)
	if got := w.Registry().Counts().Dynamic; got != 0 {
		t.Fatalf("expired entity should be reaped in the same tick, %d left", got)
	}
}

func TestStatsSystemInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := ecs.NewWorld(nil, zap.New(core), 1)
	w.AddSystem(NewStatsSystem(1))

	for i := 0; i < 25; i++ {
		w.Tick(0.1)
	}
	if got := logs.FilterMessage("world stats").Len(); got != 2 {
		t.Fatalf("expected 2 stats lines in 2.5s at a 1s interval, got %d", got)
	}

	if s := NewStatsSystem(0); s.Interval != 10 {
		t.Fatalf("expected default interval 10, got %v", s.Interval)
	}
}
