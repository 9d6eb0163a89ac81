package ecs

// Health is implemented by entities that can take damage.
type Health interface {
	CurrentHealth() int
	// Hurt subtracts amount from the current health. Damage after the
	// entity has been flagged for removal has no effect.
	Hurt(amount int)
	Heal(amount int)
}

// Projectile is implemented by entities that deal damage on contact.
type Projectile interface {
	Damage() int
	// Owner is the entity the damage is attributed to.
	Owner() Entity
}

// Pickup is implemented by collectible loot.
type Pickup interface {
	Entity
	PickupKind() string
}

// Collector is implemented by entities that can pick up loot.
type Collector interface {
	Collect(p Pickup)
}

// Expiring is implemented by entities with a limited lifetime.
type Expiring interface {
	Entity
	Expired() bool
}
