package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/prefabs"
)

func scenarioFieldSpec() *prefabs.FieldSpec {
	return &prefabs.FieldSpec{
		Name:             "scenario",
		Range:            prefabs.Vec3Spec{X: 100, Y: 100, Z: 100},
		Speed:            prefabs.Vec3Spec{X: 10, Y: 10, Z: 10},
		NumAsteroids:     5,
		InitialAsteroids: 5,
		ReleaseInterval:  2.0,
		MinSize:          1,
		MaxSize:          3,
	}
}

func TestAsteroidFieldScenario(t *testing.T) {
	w, pw := newTestWorld(11)
	field := SpawnAsteroidField(w, scenarioFieldSpec(), nil)

	// five asteroids plus the field itself
	if got := w.Registry().PendingCount(); got != 6 {
		t.Fatalf("expected 6 pending entities, got %d", got)
	}
	if pw.BodyCount() != 5 {
		t.Fatalf("expected 5 bodies, got %d", pw.BodyCount())
	}
	w.Registry().CommitPending()
	if got := w.Registry().Counts().Dynamic; got != 5 {
		t.Fatalf("expected 5 live asteroids, got %d", got)
	}
	for _, a := range field.toAdd {
		if a.Size() < 1 || a.Size() >= 4 {
			t.Fatalf("spawn size %v outside [min, max+1)", a.Size())
		}
		off := a.Position().Sub(field.Position())
		for axis := 0; axis < 3; axis++ {
			if off[axis] > 100 || off[axis] < -100 {
				t.Fatalf("spawn position %v outside the field range", a.Position())
			}
		}
	}

	field.Update(2.1)
	if got := w.Registry().PendingCount(); got != 1 {
		t.Fatalf("expected exactly one new spawn, got %d pending", got)
	}
	if field.Elapsed() != 0 {
		t.Fatalf("release timer should reset, got %v", field.Elapsed())
	}
	if field.Managed() != 6 {
		t.Fatalf("expected 6 managed asteroids, got %d", field.Managed())
	}

	// above the cap nothing more is released
	field.Update(2.1)
	if got := w.Registry().PendingCount(); got != 1 {
		t.Fatalf("spawn should be throttled above the cap, got %d pending", got)
	}
	if field.Elapsed() != 2.1 {
		t.Fatalf("timer should keep running while throttled, got %v", field.Elapsed())
	}
}

func TestAsteroidFieldReleaseTimer(t *testing.T) {
	cases := []struct {
		name      string
		steps     []float32
		wantSpawn int
	}{
		{"before_interval", []float32{1.9}, 0},
		{"at_interval", []float32{2.0}, 1},
		{"accumulated", []float32{0.5, 0.5, 0.5, 0.5}, 1},
		{"two_intervals", []float32{2.0, 2.0}, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, _ := newTestWorld(2)
			spec := scenarioFieldSpec()
			spec.InitialAsteroids = 0
			field := NewAsteroidField(w, spec, nil)
			for _, dt := range c.steps {
				field.Update(dt)
			}
			if got := w.Registry().PendingCount(); got != c.wantSpawn {
				t.Fatalf("expected %d spawns, got %d", c.wantSpawn, got)
			}
		})
	}
}

func TestAsteroidFieldWrap(t *testing.T) {
	cases := []struct {
		name  string
		start mgl32.Vec3
		want  mgl32.Vec3
	}{
		{"inside", mgl32.Vec3{15, -15, 0}, mgl32.Vec3{15, -15, 0}},
		{"on_bound", mgl32.Vec3{20, 0, 0}, mgl32.Vec3{20, 0, 0}},
		{"past_high_x", mgl32.Vec3{25, 3, -4}, mgl32.Vec3{-20, 3, -4}},
		{"past_low_y", mgl32.Vec3{0, -21, 0}, mgl32.Vec3{0, 20, 0}},
		{"past_every_axis", mgl32.Vec3{30, -30, 30}, mgl32.Vec3{-20, 20, -20}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, pw := newTestWorld(4)
			field := NewAsteroidField(w, &prefabs.FieldSpec{
				Range:           prefabs.Vec3Spec{X: 10, Y: 10, Z: 10},
				NumAsteroids:    0,
				ReleaseInterval: 1000,
				MinSize:         1,
				MaxSize:         1,
			}, nil)

			rot := mgl32.AnglesToQuat(0.4, 0.2, 1.3, mgl32.XYZ)
			a := SpawnAsteroid(w, c.start, rot, 1, nil)
			a.ApplyImpulse(mgl32.Vec3{5, 0, 0})
			before := a.Velocity()
			field.Adopt(a)

			field.Update(0)
			field.Update(0)

			if !a.Position().ApproxEqual(c.want) {
				t.Fatalf("expected cached position %v, got %v", c.want, a.Position())
			}
			pos, gotRot := pw.Transform(a.Body())
			if !pos.ApproxEqual(c.want) {
				t.Fatalf("expected body position %v, got %v", c.want, pos)
			}
			if !gotRot.ApproxEqualThreshold(rot, 1e-4) {
				t.Fatalf("wrap must keep orientation, got %v want %v", gotRot, rot)
			}
			if !a.Velocity().ApproxEqual(before) {
				t.Fatalf("wrap must keep velocity, got %v want %v", a.Velocity(), before)
			}
		})
	}
}

func TestAsteroidFieldWrapsOnAttach(t *testing.T) {
	w, pw := newTestWorld(5)
	field := NewAsteroidField(w, &prefabs.FieldSpec{
		Range:           prefabs.Vec3Spec{X: 2, Y: 2, Z: 2},
		ReleaseInterval: 1000,
		MinSize:         1,
		MaxSize:         1,
	}, nil)

	parent := SpawnAsteroid(w, mgl32.Vec3{}, mgl32.QuatIdent(), 30, nil)
	field.Adopt(parent)
	field.Update(0)
	w.Registry().CommitPending()

	// children are pushed at least the parent size out on every axis, far
	// past the bound of 4
	parent.Hurt(parent.CurrentHealth())
	if !parent.Removed() {
		t.Fatalf("parent should be destroyed")
	}
	if len(field.toAdd) != 3 {
		t.Fatalf("expected 3 adopted children, got %d", len(field.toAdd))
	}

	field.Update(0)
	children := 0
	for _, a := range field.Asteroids() {
		if a.Removed() {
			continue
		}
		children++
		for axis := 0; axis < 3; axis++ {
			if v := a.Position()[axis]; v > 4 || v < -4 {
				t.Fatalf("child at %v left outside the bound after one update", a.Position())
			}
		}
		pos, _ := pw.Transform(a.Body())
		if !pos.ApproxEqual(a.Position()) {
			t.Fatalf("wrapped body %v and mirror %v disagree", pos, a.Position())
		}
	}
	if children != 3 {
		t.Fatalf("expected 3 live children attached, got %d", children)
	}
}

func TestAsteroidFieldDetachesRemoved(t *testing.T) {
	w, _ := newTestWorld(9)
	spec := scenarioFieldSpec()
	spec.InitialAsteroids = 3
	spec.ReleaseInterval = 1000
	field := NewAsteroidField(w, spec, nil)
	field.Update(0)
	if len(field.Asteroids()) != 3 {
		t.Fatalf("expected 3 attached asteroids, got %d", len(field.Asteroids()))
	}

	victim := field.Asteroids()[1]
	victim.Remove()
	field.Update(0)

	if len(field.Asteroids()) != 2 {
		t.Fatalf("removed asteroid should be detached, got %d", len(field.Asteroids()))
	}
	for _, a := range field.Asteroids() {
		if a == victim {
			t.Fatalf("removed asteroid still tracked")
		}
	}
	// the field never touches the registry's copy
	w.Registry().CommitPending()
	if got := w.Registry().Counts().Dynamic; got != 3 {
		t.Fatalf("registry should still hold the removed asteroid until reaped, got %d", got)
	}
}

func TestAsteroidFieldSetLootSpec(t *testing.T) {
	w, _ := newTestWorld(9)
	spec := scenarioFieldSpec()
	spec.InitialAsteroids = 2
	field := NewAsteroidField(w, spec, nil)

	loot := DefaultDiamondSpec()
	loot.Kind = "opal"
	field.SetLootSpec(&loot)
	for _, a := range field.toAdd {
		if a.loot != &loot {
			t.Fatalf("queued asteroids should receive the loot spec")
		}
	}
	next := field.SpawnOne()
	if next.loot != &loot {
		t.Fatalf("new asteroids should receive the loot spec")
	}
}
