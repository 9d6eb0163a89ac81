// Command prefabcheck decodes every prefab, builds a sandbox script and
// steps it headless, printing entity counts. It exits non-zero on the first
// prefab or script that fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/milk9111/spaceout/config"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/prefabs"
	"github.com/milk9111/spaceout/sandbox"
	"go.uber.org/zap"
)

var specFiles = []string{
	"asteroid.yaml",
	"asteroid_field.yaml",
	"diamond.yaml",
	"player.yaml",
	"camera.yaml",
	"sun.yaml",
	"debris.yaml",
	"palette.yaml",
}

func main() {
	dir := flag.String("dir", "", "prefab directory to check instead of the embedded prefabs")
	script := flag.String("sandbox", "sandbox.tengo", "sandbox script to build")
	ticks := flag.Int("ticks", 600, "ticks to simulate after building")
	seed := flag.Uint64("seed", 1, "world seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := config.NewLogger(config.LoggingConfig{Level: level})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *dir != "" {
		prefabs.SetDir(*dir)
	}

	if err := run(log, *script, *ticks, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(log *zap.Logger, script string, ticks int, seed uint64) error {
	for _, name := range specFiles {
		if _, err := prefabs.Reload(name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Printf("ok   %s\n", name)
	}

	physics := ecs.NewPhysicsWorld(0, log)
	world := ecs.NewWorld(physics, log, seed)
	defer world.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scene, err := sandbox.Load(ctx, world, script)
	if err != nil {
		return err
	}
	fmt.Printf("ok   %s (fields: %d, pending: %d)\n", script, len(scene.Fields), world.Registry().PendingCount())

	cfg := config.Default()
	dt := cfg.Simulation.TickSeconds()
	start := time.Now()
	for i := 0; i < ticks; i++ {
		world.Tick(dt)
	}
	counts := world.Registry().Counts()
	fmt.Printf("ran  %d ticks in %s: dynamic %d, passive %d, lights %d, bodies %d\n",
		ticks, time.Since(start).Round(time.Millisecond),
		counts.Dynamic, counts.Passive, counts.Lights, physics.BodyCount())
	return nil
}
