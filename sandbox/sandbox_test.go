package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
)

func newWorld() *ecs.World {
	return ecs.NewWorld(ecs.NewPhysicsWorld(0, nil), nil, 1)
}

func TestLoadShippedSandbox(t *testing.T) {
	prefabs.SetDir("")
	t.Cleanup(func() { prefabs.SetDir("prefabs") })

	w := newWorld()
	scene, err := Load(context.Background(), w, "sandbox.tengo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if scene.Player == nil || scene.Camera == nil || scene.Sun == nil || scene.Debris == nil {
		t.Fatalf("scene missing entities: %+v", scene)
	}
	if len(scene.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(scene.Fields))
	}
	if scene.Camera.Target() != ecs.Entity(scene.Player) {
		t.Fatalf("camera should follow the player")
	}

	second := scene.Fields[1]
	if second.NumAsteroids != 12 || second.Managed() != 8 {
		t.Fatalf("override not applied to second field: cap %d managed %d", second.NumAsteroids, second.Managed())
	}
	want := scene.Player.Position().X() + 4000
	if second.Position().X() != want {
		t.Fatalf("script arithmetic on the player position failed: got x %v want %v", second.Position().X(), want)
	}

	w.Tick(1.0 / 60)
	counts := w.Registry().Counts()
	if counts.Lights != 1 || counts.Passive != 4 {
		t.Fatalf("unexpected registry counts %+v", counts)
	}
}

func TestBuildScripts(t *testing.T) {
	prefabs.SetDir("")
	t.Cleanup(func() { prefabs.SetDir("prefabs") })

	cases := []struct {
		name    string
		src     string
		wantErr string
		check   func(t *testing.T, s *Scene)
	}{
		{
			name: "empty",
			src:  "",
			check: func(t *testing.T, s *Scene) {
				if s.Player != nil || len(s.Fields) != 0 {
					t.Fatalf("empty script should build nothing")
				}
			},
		},
		{
			name: "returns_position",
			src:  `p := player({position: {x: 1, y: 2, z: 3}}); sun({size: p.z})`,
			check: func(t *testing.T, s *Scene) {
				if s.Player == nil || s.Player.Position().Y() != 2 {
					t.Fatalf("player override not applied")
				}
				if s.Sun == nil || s.Sun.Size != 3 {
					t.Fatalf("builder should return the position map")
				}
			},
		},
		{
			name: "stdlib_import",
			src:  `math := import("math"); sun({size: math.sqrt(16)})`,
			check: func(t *testing.T, s *Scene) {
				if s.Sun == nil || s.Sun.Size != 4 {
					t.Fatalf("expected sun size 4")
				}
			},
		},
		{name: "bad_argument", src: `sun(5)`, wantErr: "override"},
		{name: "too_many_arguments", src: `sun({}, {})`, wantErr: "wrong number of arguments"},
		{name: "camera_without_target", src: `camera()`, wantErr: "camera target"},
		{name: "syntax_error", src: `sun(`, wantErr: "run"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scene, err := Build(context.Background(), newWorld(), []byte(c.src))
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			c.check(t, scene)
		})
	}
}

func TestBuildHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Build(ctx, newWorld(), []byte(`for { }`))
	if err == nil {
		t.Fatalf("endless script should be stopped by the context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got %v", err)
	}
}

func TestLoadMissingScript(t *testing.T) {
	if _, err := Load(context.Background(), newWorld(), "nope.tengo"); err == nil {
		t.Fatalf("missing script should fail")
	}
	if _, err := Build(context.Background(), nil, nil); err == nil {
		t.Fatalf("nil world should fail")
	}
}
