package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/spaceout/common"
	"github.com/milk9111/spaceout/ecs"
	"github.com/milk9111/spaceout/ecs/component"
	"github.com/milk9111/spaceout/prefabs"
	"go.uber.org/zap"
)

// Warping puts the player this far in front of the target, in the
// player's own frame.
var warpOffset = mgl32.Vec3{0, 0, -10}

func DefaultPlayerSpec() prefabs.PlayerSpec {
	return prefabs.PlayerSpec{
		Name:        "player",
		Model:       "ship",
		Position:    prefabs.Vec3Spec{X: 50, Y: 50, Z: 1000},
		Radius:      6,
		Mass:        50,
		Restitution: 0.01,
		Health:      100,
		Layer: prefabs.CollisionLayerSpec{
			Category: prefabs.CategorySpec(component.CategoryShip),
			Mask:     prefabs.CategorySpec(component.CategoryAll),
		},
	}
}

// Player is the ship. It takes damage from projectiles and collects loot.
type Player struct {
	*ecs.DynamicEntity

	world     *ecs.World
	health    int
	maxHealth int
	loot      map[string]int
}

func NewPlayer(w *ecs.World) (*Player, error) {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("player: load spec: %w", err)
	}
	return NewPlayerFromSpec(w, spec), nil
}

func NewPlayerFromSpec(w *ecs.World, spec *prefabs.PlayerSpec) *Player {
	s := DefaultPlayerSpec()
	if spec != nil {
		s = *spec
	}
	if s.Radius <= 0 {
		s.Radius = 1
	}
	if s.Health <= 0 {
		s.Health = 100
	}

	p := &Player{
		world:     w,
		health:    s.Health,
		maxHealth: s.Health,
		loot:      make(map[string]int),
	}
	p.DynamicEntity = ecs.NewDynamicEntity(w.Physics(), "Player", ecs.BodyDef{
		Shape:       ecs.Sphere(s.Radius),
		Mass:        s.Mass,
		Restitution: s.Restitution,
		Layer:       s.Layer.Layer(),
		Position:    s.Position.Vec(),
		Rotation:    mgl32.QuatIdent(),
		Owner:       p,
	})
	p.Model = ecs.ModelHandle(s.Model)
	return p
}

func (p *Player) CurrentHealth() int {
	return p.health
}

func (p *Player) MaxHealth() int {
	return p.maxHealth
}

// Hurt lowers health, never below zero.
func (p *Player) Hurt(amount int) {
	if p.Removed() || amount <= 0 {
		return
	}
	p.health -= amount
	if p.health < 0 {
		p.health = 0
	}
	p.world.Logger().Debug("player hurt", zap.Int("amount", amount), zap.Int("health", p.health))
}

func (p *Player) Heal(amount int) {
	if p.Removed() || amount <= 0 {
		return
	}
	p.health += amount
}

func (p *Player) Collect(item ecs.Pickup) {
	if item == nil {
		return
	}
	p.loot[item.PickupKind()]++
}

// Loot returns how many pickups of kind the player holds.
func (p *Player) Loot(kind string) int {
	return p.loot[kind]
}

// WarpTo moves the player just in front of target.
func (p *Player) WarpTo(target ecs.Entity) {
	if target == nil {
		return
	}
	ahead := common.RotateVector(p.Rotation(), warpOffset)
	p.Teleport(target.Position().Add(ahead))
}
