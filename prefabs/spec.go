package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs/component"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPrefab is returned by Reload for files no loader claims.
var ErrUnknownPrefab = errors.New("prefabs: unknown prefab")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (v Vec3Spec) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func Vec(v mgl32.Vec3) Vec3Spec {
	return Vec3Spec{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// CategorySpec decodes "ship|planet", "all" or "none".
type CategorySpec component.Category

func (c *CategorySpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("collision category must be a string")
	}
	cat, ok := component.ParseCategories(value.Value)
	if !ok {
		return fmt.Errorf("invalid collision category: %s", value.Value)
	}
	*c = CategorySpec(cat)
	return nil
}

func (c CategorySpec) MarshalYAML() (any, error) {
	return component.Category(c).String(), nil
}

type CollisionLayerSpec struct {
	Category CategorySpec `yaml:"category"`
	Mask     CategorySpec `yaml:"mask"`
}

func (s CollisionLayerSpec) Layer() component.CollisionLayer {
	return component.CollisionLayer{
		Category: component.Category(s.Category),
		Mask:     component.Category(s.Mask),
	}
}

type AsteroidSpec struct {
	Name         string             `yaml:"name"`
	Model        string             `yaml:"model"`
	Health       int                `yaml:"health"`
	Damage       int                `yaml:"damage"`
	Restitution  float32            `yaml:"restitution"`
	MassFactor   float32            `yaml:"mass_factor"`
	LootSize     float32            `yaml:"loot_size"`
	LootAmount   int                `yaml:"loot_amount"`
	Divisions    int                `yaml:"divisions"`
	OffsetSpread float32            `yaml:"offset_spread"`
	Spin         float32            `yaml:"spin"`
	Layer        CollisionLayerSpec `yaml:"layer"`
}

func LoadAsteroidSpec() (*AsteroidSpec, error) {
	spec, err := LoadSpec[AsteroidSpec]("asteroid.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type FieldSpec struct {
	Name             string   `yaml:"name"`
	Location         Vec3Spec `yaml:"location"`
	Range            Vec3Spec `yaml:"range"`
	Speed            Vec3Spec `yaml:"speed"`
	NumAsteroids     int      `yaml:"num_asteroids"`
	InitialAsteroids int      `yaml:"initial_asteroids"`
	ReleaseInterval  float32  `yaml:"release_interval"`
	MinSize          float32  `yaml:"min_size"`
	MaxSize          float32  `yaml:"max_size"`
}

func LoadFieldSpec() (*FieldSpec, error) {
	spec, err := LoadSpec[FieldSpec]("asteroid_field.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type DiamondSpec struct {
	Name        string             `yaml:"name"`
	Model       string             `yaml:"model"`
	Kind        string             `yaml:"kind"`
	Radius      float32            `yaml:"radius"`
	Mass        float32            `yaml:"mass"`
	Restitution float32            `yaml:"restitution"`
	StopSpeed   float32            `yaml:"stop_speed"`
	Lifetime    float32            `yaml:"lifetime"`
	Layer       CollisionLayerSpec `yaml:"layer"`
}

func LoadDiamondSpec() (*DiamondSpec, error) {
	spec, err := LoadSpec[DiamondSpec]("diamond.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	Name        string             `yaml:"name"`
	Model       string             `yaml:"model"`
	Position    Vec3Spec           `yaml:"position"`
	Radius      float32            `yaml:"radius"`
	Mass        float32            `yaml:"mass"`
	Restitution float32            `yaml:"restitution"`
	Health      int                `yaml:"health"`
	Layer       CollisionLayerSpec `yaml:"layer"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CameraSpec struct {
	Name    string   `yaml:"name"`
	Target  string   `yaml:"target"`
	Zoom    float32  `yaml:"zoom"`
	XOffset float32  `yaml:"x_offset"`
	YOffset float32  `yaml:"y_offset"`
	Start   Vec3Spec `yaml:"start"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SunSpec struct {
	Name      string    `yaml:"name"`
	Model     string    `yaml:"model"`
	Location  Vec3Spec  `yaml:"location"`
	Size      float32   `yaml:"size"`
	Intensity float32   `yaml:"intensity"`
	Color     YAMLColor `yaml:"color"`
}

func LoadSunSpec() (*SunSpec, error) {
	spec, err := LoadSpec[SunSpec]("sun.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type DebrisSpec struct {
	Name  string  `yaml:"name"`
	Model string  `yaml:"model"`
	Count int     `yaml:"count"`
	Range float32 `yaml:"range"`
	Seed  uint64  `yaml:"seed"`
	Size  float32 `yaml:"size"`
}

func LoadDebrisSpec() (*DebrisSpec, error) {
	spec, err := LoadSpec[DebrisSpec]("debris.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// PaletteSpec maps model handles to draw colours.
type PaletteSpec struct {
	Background YAMLColor            `yaml:"background"`
	Models     map[string]YAMLColor `yaml:"models"`
}

func LoadPaletteSpec() (*PaletteSpec, error) {
	spec, err := LoadSpec[PaletteSpec]("palette.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Reload decodes the prefab behind a changed file name and returns the
// typed spec. Unknown names yield ErrUnknownPrefab.
func Reload(name string) (any, error) {
	switch cleanPrefabPath(baseName(name)) {
	case "asteroid.yaml":
		return LoadAsteroidSpec()
	case "asteroid_field.yaml":
		return LoadFieldSpec()
	case "diamond.yaml":
		return LoadDiamondSpec()
	case "player.yaml":
		return LoadPlayerSpec()
	case "camera.yaml":
		return LoadCameraSpec()
	case "sun.yaml":
		return LoadSunSpec()
	case "debris.yaml":
		return LoadDebrisSpec()
	case "palette.yaml":
		return LoadPaletteSpec()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPrefab, name)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}
