package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/entity"
	"go.uber.org/zap"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("console: quit requested")

var errNotEnough = errors.New("not enough arguments")

const defaultMaxLines = 200

// Console is the in-game debug console. Lines submitted from any goroutine
// run on the tick goroutine when the console's system update runs, so
// commands only touch the world between entity updates.
type Console struct {
	mu      sync.Mutex
	pending []string
	lines   []string
	quit    bool

	MaxLines int

	player *entity.Player
	camera *entity.Camera
	log    *zap.Logger
}

func New(log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{MaxLines: defaultMaxLines, log: log.Named("console")}
}

// Bind sets the entities the position, warp and camera commands act on.
func (c *Console) Bind(player *entity.Player, camera *entity.Camera) {
	c.player = player
	c.camera = camera
}

// Submit queues a command line. Safe to call from any goroutine.
func (c *Console) Submit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	c.mu.Lock()
	c.pending = append(c.pending, line)
	c.mu.Unlock()
}

// Update runs every queued command line.
func (c *Console) Update(w *ecs.World) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, line := range pending {
		if err := c.Exec(w, line); errors.Is(err, ErrQuit) {
			c.mu.Lock()
			c.quit = true
			c.mu.Unlock()
		}
	}
}

// QuitRequested reports whether a quit command has run.
func (c *Console) QuitRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quit
}

// Print appends a line to the console output.
func (c *Console) Print(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	c.mu.Lock()
	c.lines = append(c.lines, line)
	if limit := c.MaxLines; limit > 0 && len(c.lines) > limit {
		c.lines = append(c.lines[:0], c.lines[len(c.lines)-limit:]...)
	}
	c.mu.Unlock()
	c.log.Info(line)
}

// Lines returns a copy of the console output.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func (c *Console) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

type commandFn func(c *Console, w *ecs.World, args []string) error

var commands = map[string]commandFn{
	"pos":         positionCommand,
	"xyz":         positionCommand,
	"position":    positionCommand,
	"list":        listCommand,
	"numentities": numEntitiesCommand,
	"warp":        warpCommand,
	"camera":      cameraCommand,
	"clear":       clearCommand,
	"quit":        quitCommand,
	"exit":        quitCommand,
	"q":           quitCommand,
}

// Exec runs one command line on the tick goroutine. Malformed input is
// reported on the console and never returned; the only error is ErrQuit.
func (c *Console) Exec(w *ecs.World, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	c.log.Debug("exec", zap.String("line", line))

	cmd, ok := commands[name]
	if !ok {
		c.Print("Invalid command! (%s)", name)
		return nil
	}

	err := cmd(c, w, fields[1:])
	var numErr *strconv.NumError
	switch {
	case err == nil:
	case errors.Is(err, ErrQuit):
		return ErrQuit
	case errors.Is(err, errNotEnough):
		c.Print("Not enough variables for command '%s'!", name)
	case errors.As(err, &numErr):
		c.Print("Incorrect number format for input string: %q", numErr.Num)
	default:
		c.Print("%s", err)
	}
	return nil
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, errNotEnough
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func positionCommand(c *Console, _ *ecs.World, args []string) error {
	v, err := parseFloats(args, 3)
	if err != nil {
		return err
	}
	if c.player == nil {
		c.Print("No player to move")
		return nil
	}
	old := c.player.Position()
	c.Print("Moving player to x: %g y: %g z: %g from x: %g y: %g z: %g",
		v[0], v[1], v[2], old.X(), old.Y(), old.Z())
	c.player.Teleport(mgl32.Vec3{v[0], v[1], v[2]})
	return nil
}

func listCommand(c *Console, w *ecs.World, args []string) error {
	if len(args) < 1 {
		return errNotEnough
	}
	reg := w.Registry()
	switch args[0] {
	case "dynamic":
		c.Print("Listing dynamic entities...")
		reg.EachDynamic(func(id ecs.EntityID, e ecs.Dynamic) {
			c.Print("%s %s", id, e.Type())
		})
	case "static", "passive":
		c.Print("Listing static entities...")
		reg.EachPassive(func(e ecs.Entity) {
			c.Print("%s", e.Type())
		})
	case "lights", "light":
		c.Print("Listing lights...")
		reg.EachLight(func(e ecs.Entity) {
			c.Print("%s", e.Type())
		})
	default:
		c.Print("List command not recognized! (%s)", args[0])
	}
	return nil
}

func numEntitiesCommand(c *Console, w *ecs.World, _ []string) error {
	counts := w.Registry().Counts()
	c.Print("Number of static entities: %d", counts.Passive)
	c.Print("Number of dynamic entities: %d", counts.Dynamic)
	c.Print("Number of lights: %d", counts.Lights)
	return nil
}

func warpCommand(c *Console, w *ecs.World, args []string) error {
	if len(args) < 1 {
		return errNotEnough
	}
	label := strings.Join(args, " ")
	target, ok := w.Registry().LookupDynamicByType(label)
	if !ok {
		c.Print("Couldn't find entity %s", label)
		return nil
	}
	if c.player == nil {
		c.Print("No player to warp")
		return nil
	}
	p := target.Position()
	c.Print("Warping Player to %s (%g,%g,%g)", target.Type(), p.X(), p.Y(), p.Z())
	c.player.WarpTo(target)
	return nil
}

func cameraCommand(c *Console, w *ecs.World, args []string) error {
	if len(args) < 1 {
		return errNotEnough
	}
	if c.camera == nil {
		c.Print("No camera to change")
		return nil
	}
	sub := strings.ToLower(args[0])
	switch sub {
	case "zoom", "xoffset", "yoffset":
		v, err := parseFloats(args[1:], 1)
		if err != nil {
			return err
		}
		switch sub {
		case "zoom":
			c.Print("Changing camera zoom from %g to %g", c.camera.Zoom, v[0])
			c.camera.SetZoom(v[0])
		case "xoffset":
			c.Print("Changing camera xOffset from %g to %g", c.camera.XOffset, v[0])
			c.camera.XOffset = v[0]
		case "yoffset":
			c.Print("Changing camera yOffset from %g to %g", c.camera.YOffset, v[0])
			c.camera.YOffset = v[0]
		}
	case "follow":
		if len(args) < 2 {
			return errNotEnough
		}
		label := strings.Join(args[1:], " ")
		var target ecs.Entity
		if strings.EqualFold(label, "player") && c.player != nil {
			target = c.player
		} else if e, ok := w.Registry().LookupByType(label); ok {
			target = e
		}
		if target == nil {
			c.Print("Couldn't find entity %s", label)
			return nil
		}
		c.Print("Camera now following %s", label)
		c.camera.Follow(target)
	default:
		c.Print("Invalid camera command! (%s)", sub)
	}
	return nil
}

func clearCommand(c *Console, _ *ecs.World, _ []string) error {
	c.Clear()
	return nil
}

func quitCommand(*Console, *ecs.World, []string) error {
	return ErrQuit
}
