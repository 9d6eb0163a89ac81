package component

import "testing"

func TestCategoryString(t *testing.T) {
	cases := []struct {
		in   Category
		want string
	}{
		{0, "none"},
		{CategoryAll, "all"},
		{CategoryShip, "ship"},
		{CategoryShip | CategoryPickup, "ship|pickup"},
		{CategoryDebris | CategoryPlanet, "planet|debris"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := c.in.String(); got != c.want {
				t.Fatalf("String() = %q, want %q", got, c.want)
			}
			back, ok := ParseCategories(c.want)
			if !ok || back != c.in {
				t.Fatalf("ParseCategories(%q) = %v, %v", c.want, back, ok)
			}
		})
	}
}

func TestParseCategories(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"", 0, true},
		{" Ship | WALL ", CategoryShip | CategoryWall, true},
		{"projectile", CategoryProjectile, true},
		{"ship|comet", 0, false},
		{"ship|", 0, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseCategories(c.in)
			if ok != c.ok || got != c.want {
				t.Fatalf("ParseCategories(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestCollides(t *testing.T) {
	cases := []struct {
		name string
		a, b CollisionLayer
		want bool
	}{
		{"zero_values", CollisionLayer{}, CollisionLayer{}, true},
		{"masks_agree", CollisionLayer{CategoryShip, CategoryPickup}, CollisionLayer{CategoryPickup, CategoryShip}, true},
		{"one_side_refuses", CollisionLayer{CategoryShip, CategoryPickup}, CollisionLayer{CategoryPickup, CategoryWall}, false},
		{"default_category_is_one", CollisionLayer{Mask: CategoryShip}, CollisionLayer{CategoryWall, 0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Collides(c.b); got != c.want {
				t.Fatalf("Collides = %v, want %v", got, c.want)
			}
			if got := c.b.Collides(c.a); got != c.want {
				t.Fatalf("Collides should be symmetric")
			}
		})
	}

	n := CollisionLayer{}.Normalized()
	if n.Category != 1 || n.Mask != CategoryAll {
		t.Fatalf("unexpected normalized layer %+v", n)
	}
}
