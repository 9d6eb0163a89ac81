package component

import "strings"

// Category is a collision category bit. An object belongs to one or more
// categories and collides only with objects whose category is in its mask.
type Category uint32

const (
	CategoryShip Category = 1 << iota
	CategoryWall
	CategoryPlanet
	CategoryPickup
	CategoryProjectile
	CategoryDebris

	CategoryAll Category = ^Category(0)
)

var categoryNames = []struct {
	bit  Category
	name string
}{
	{CategoryShip, "ship"},
	{CategoryWall, "wall"},
	{CategoryPlanet, "planet"},
	{CategoryPickup, "pickup"},
	{CategoryProjectile, "projectile"},
	{CategoryDebris, "debris"},
}

// String lists the category names set in c, joined by '|'.
func (c Category) String() string {
	if c == 0 {
		return "none"
	}
	if c == CategoryAll {
		return "all"
	}
	parts := make([]string, 0, len(categoryNames))
	for _, cn := range categoryNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseCategories turns names like "ship|planet" into a category mask.
// Unknown names are reported as ok=false.
func ParseCategories(s string) (Category, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return 0, true
	}
	if s == "all" {
		return CategoryAll, true
	}
	var out Category
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, cn := range categoryNames {
			if cn.name == part {
				out |= cn.bit
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return out, true
}

// CollisionLayer allows entities to declare a collision category and mask
// so the physics engine can selectively enable/disable collisions between
// groups of objects.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// it is treated as category 1.
	Category Category
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, it is treated as all-bits set (collide with all).
	Mask Category
}

// Normalized resolves the zero-value defaults.
func (l CollisionLayer) Normalized() CollisionLayer {
	if l.Category == 0 {
		l.Category = 1
	}
	if l.Mask == 0 {
		l.Mask = CategoryAll
	}
	return l
}

// Collides reports whether two layers agree to generate contacts. Both
// category/mask combinations must pass.
func (l CollisionLayer) Collides(other CollisionLayer) bool {
	a := l.Normalized()
	b := other.Normalized()
	return a.Category&b.Mask != 0 && b.Category&a.Mask != 0
}
