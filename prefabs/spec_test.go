package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/spaceout/ecs/component"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedPrefabsDecode(t *testing.T) {
	SetDir("")
	t.Cleanup(func() { SetDir("prefabs") })

	asteroid, err := LoadAsteroidSpec()
	if err != nil {
		t.Fatalf("asteroid: %v", err)
	}
	if asteroid.LootAmount != 25 || asteroid.Divisions != 3 {
		t.Fatalf("unexpected asteroid spec %+v", asteroid)
	}
	if asteroid.Layer.Layer().Category != component.CategoryPlanet {
		t.Fatalf("asteroid category should decode to planet")
	}

	field, err := LoadFieldSpec()
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if field.Location.Vec().Z() != 1000 || field.NumAsteroids != 30 {
		t.Fatalf("unexpected field spec %+v", field)
	}

	palette, err := LoadPaletteSpec()
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	if palette.Models["diamond"].Color == nil {
		t.Fatalf("palette should define a diamond colour")
	}

	for _, name := range []string{"diamond.yaml", "player.yaml", "camera.yaml", "sun.yaml", "debris.yaml"} {
		if _, err := Reload(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestReload(t *testing.T) {
	cases := []struct {
		name    string
		want    any
		unknown bool
	}{
		{"asteroid.yaml", &AsteroidSpec{}, false},
		{"/some/dir/prefabs/diamond.yaml", &DiamondSpec{}, false},
		{"prefabs/sun.yaml", &SunSpec{}, false},
		{"level.yaml", nil, true},
		{"sandbox.tengo", nil, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Reload(c.name)
			if c.unknown {
				if !errors.Is(err, ErrUnknownPrefab) {
					t.Fatalf("expected ErrUnknownPrefab, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reload: %v", err)
			}
			switch c.want.(type) {
			case *AsteroidSpec:
				_, ok := got.(*AsteroidSpec)
				if !ok {
					t.Fatalf("expected *AsteroidSpec, got %T", got)
				}
			case *DiamondSpec:
				_, ok := got.(*DiamondSpec)
				if !ok {
					t.Fatalf("expected *DiamondSpec, got %T", got)
				}
			case *SunSpec:
				_, ok := got.(*SunSpec)
				if !ok {
					t.Fatalf("expected *SunSpec, got %T", got)
				}
			}
		})
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("prefabs") })

	data := []byte("name: custom\nhealth: 7\nlayer:\n  category: debris\n  mask: none\n")
	if err := os.WriteFile(filepath.Join(dir, "asteroid.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadAsteroidSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "custom" || spec.Health != 7 {
		t.Fatalf("disk copy should win over the embedded one, got %+v", spec)
	}
	if _, ok := ModTime("asteroid.yaml"); !ok {
		t.Fatalf("ModTime should find the disk copy")
	}

	// files missing on disk fall back to the embedded copy
	if _, err := LoadDiamondSpec(); err != nil {
		t.Fatalf("embedded fallback: %v", err)
	}
}

func TestCategorySpecYAML(t *testing.T) {
	cases := []struct {
		in      string
		want    component.Category
		wantErr bool
	}{
		{`"ship|planet"`, component.CategoryShip | component.CategoryPlanet, false},
		{`all`, component.CategoryAll, false},
		{`none`, 0, false},
		{`"ship|bogus"`, 0, true},
		{`[ship]`, 0, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got CategorySpec
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if component.Category(got) != c.want {
				t.Fatalf("expected %v, got %v", c.want, component.Category(got))
			}
		})
	}

	out, err := yaml.Marshal(CollisionLayerSpec{
		Category: CategorySpec(component.CategoryPickup),
		Mask:     CategorySpec(component.CategoryShip | component.CategoryWall),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "category: pickup\nmask: ship|wall\n" {
		t.Fatalf("unexpected encoding %q", out)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#FF8000"`, color.NRGBA{R: 255, G: 128, A: 255}, false},
		{`"10203040"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{`"#FFF"`, color.NRGBA{}, true},
		{`"#GG0000"`, color.NRGBA{}, true},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Color != c.want {
				t.Fatalf("expected %v, got %v", c.want, got.Color)
			}

			out, err := yaml.Marshal(got)
			if err != nil {
				t.Fatal(err)
			}
			var back YAMLColor
			if err := yaml.Unmarshal(out, &back); err != nil || back.Color != got.Color {
				t.Fatalf("colour did not survive encoding: %q", out)
			}
		})
	}
}

func TestDecodeInto(t *testing.T) {
	base := FieldSpec{
		Name:            "base",
		Location:        Vec3Spec{X: 1, Y: 2, Z: 3},
		NumAsteroids:    30,
		ReleaseInterval: 5,
	}

	override := map[string]any{
		"num_asteroids": int64(12),
		"location":      map[string]any{"x": 4000.5},
	}
	if err := DecodeInto(override, &base); err != nil {
		t.Fatal(err)
	}
	if base.NumAsteroids != 12 || base.ReleaseInterval != 5 || base.Name != "base" {
		t.Fatalf("override should only touch named fields, got %+v", base)
	}
	if base.Location != (Vec3Spec{X: 4000.5, Y: 2, Z: 3}) {
		t.Fatalf("nested override should keep sibling fields, got %+v", base.Location)
	}

	if err := DecodeInto(nil, &base); err != nil {
		t.Fatalf("nil override should be a no-op: %v", err)
	}

	spec, err := DecodeSpec[DebrisSpec](map[string]any{"count": 3, "range": 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Count != 3 || spec.Range != 2.5 {
		t.Fatalf("unexpected decoded spec %+v", spec)
	}

	if _, err := DecodeSpec[DebrisSpec](map[string]any{"count": "lots"}); err == nil {
		t.Fatalf("type mismatch should fail")
	}
}

func TestCleanPaths(t *testing.T) {
	cases := []struct {
		in, prefab, script string
	}{
		{"asteroid.yaml", "asteroid.yaml", "scripts/asteroid.yaml"},
		{"prefabs/asteroid.yaml", "asteroid.yaml", "scripts/asteroid.yaml"},
		{"sandbox.tengo", "sandbox.tengo", "scripts/sandbox.tengo"},
		{"prefabs/scripts/sandbox.tengo", "scripts/sandbox.tengo", "scripts/sandbox.tengo"},
		{"", "", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := cleanPrefabPath(c.in); got != c.prefab {
				t.Fatalf("cleanPrefabPath(%q) = %q, want %q", c.in, got, c.prefab)
			}
			if got := cleanScriptPath(c.in); got != c.script {
				t.Fatalf("cleanScriptPath(%q) = %q, want %q", c.in, got, c.script)
			}
		})
	}
}
