package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spaceout/config"
	"github.com/milk9111/spaceout/console"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/system"
	"github.com/milk9111/spaceout/prefabs"
	"github.com/milk9111/spaceout/render"
	"github.com/milk9111/spaceout/sandbox"
	"go.uber.org/zap"
)

type Game struct {
	ctx context.Context
	cfg *config.Config
	log *zap.Logger
	dt  float32

	world    *ecs.World
	physics  *ecs.PhysicsWorld
	scene    *sandbox.Scene
	console  *console.Console
	renderer *render.Renderer
	watcher  *prefabs.Watcher

	panel       *consolePanel
	frames      int
	showPhysics bool
}

func NewGame(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Game, error) {
	if cfg.Prefabs.Dir != "" {
		prefabs.SetDir(cfg.Prefabs.Dir)
	}

	physics := ecs.NewPhysicsWorld(cfg.Simulation.PhysicsIterations, log.Named("physics"))
	world := ecs.NewWorld(physics, log.Named("world"), cfg.Simulation.Seed)

	scene, err := sandbox.Load(ctx, world, cfg.Sandbox.Script)
	if err != nil {
		world.Close()
		return nil, fmt.Errorf("build sandbox: %w", err)
	}

	con := console.New(log)
	con.Bind(scene.Player, scene.Camera)

	world.AddSystem(con)
	world.AddSystem(system.NewTTLSystem())
	world.AddSystem(system.NewStatsSystem(cfg.Simulation.StatsInterval))

	palette := render.DefaultPalette()
	if spec, err := prefabs.LoadPaletteSpec(); err != nil {
		log.Warn("using default palette", zap.Error(err))
	} else {
		palette = render.PaletteFromSpec(spec)
	}

	g := &Game{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		dt:       cfg.Simulation.TickSeconds(),
		world:    world,
		physics:  physics,
		scene:    scene,
		console:  con,
		renderer: render.New(cfg.Window.Width, cfg.Window.Height, palette),
	}

	if cfg.Prefabs.Watch {
		dir := prefabs.Dir()
		w, err := prefabs.NewWatcher(log.Named("prefabs"), dir, filepath.Join(dir, "scripts"))
		if err != nil {
			log.Warn("prefab hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
			go g.watch(ctx)
		}
	}

	log.Info("game ready",
		zap.String("sandbox", cfg.Sandbox.Script),
		zap.Int("tick_rate", cfg.Simulation.TickRate),
		zap.Uint64("seed", cfg.Simulation.Seed))
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	g.updateConsoleInput()
	g.world.Tick(g.dt)

	if g.console.QuitRequested() {
		return ebiten.Termination
	}
	return nil
}

// updateConsoleInput toggles the physics overlay with F3 and the command
// prompt with `. The panel is built on first use so headless runs never
// touch ebitenui.
func (g *Game) updateConsoleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showPhysics = !g.showPhysics
	}
	if g.panel == nil {
		g.panel = newConsolePanel(g.cfg.Window.Width, g.console.Submit)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyGraveAccent) {
		g.panel.Toggle()
		return
	}
	if g.panel.Open() {
		g.panel.SetLines(g.console.Lines())
	}
	g.panel.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	center, zoom := mgl32.Vec3{}, float32(1)
	if cam := g.scene.Camera; cam != nil {
		center, zoom = cam.Position(), cam.Zoom
	}

	g.renderer.Begin(screen, center, zoom)
	g.world.Draw(g.renderer)
	if g.showPhysics {
		g.renderer.DrawPhysics(g.physics.Space())
	}

	counts := g.world.Registry().Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d    FPS: %.2f    Dynamic: %d    Drawn: %d\n",
		g.world.Ticks(), ebiten.ActualFPS(), counts.Dynamic, g.renderer.Drawn())
	if p := g.scene.Player; p != nil {
		fmt.Fprintf(&b, "Health: %d/%d    Diamonds: %d\n", p.CurrentHealth(), p.MaxHealth(), p.Loot("diamond"))
	}
	ebitenutil.DebugPrint(screen, b.String())

	if g.panel != nil {
		g.panel.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// RunHeadless ticks the world without a window. With limit > 0 it runs that
// many ticks as fast as it can; otherwise it paces at the tick rate until
// ctx is done or the console asks to quit. It returns the ticks run.
func (g *Game) RunHeadless(ctx context.Context, limit int) int {
	if limit > 0 {
		for i := 0; i < limit; i++ {
			if ctx.Err() != nil || g.console.QuitRequested() {
				return i
			}
			g.world.Tick(g.dt)
		}
		return limit
	}

	ticker := time.NewTicker(time.Duration(float64(g.dt) * float64(time.Second)))
	defer ticker.Stop()
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n
		case <-ticker.C:
			g.world.Tick(g.dt)
			n++
			if g.console.QuitRequested() {
				return n
			}
		}
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.world.Close()
	g.log.Info("world closed", zap.Int("bodies", g.physics.BodyCount()))
}

// readConsole submits every line read from r to c until r is exhausted.
func readConsole(ctx context.Context, r io.Reader, c *console.Console) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		c.Submit(scanner.Text())
	}
}
