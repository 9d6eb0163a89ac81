package ecs

import "strings"

type pendingDynamic struct {
	id     EntityID
	entity Dynamic
}

// Registry holds every live entity, partitioned by kind. New entities go
// to pending containers and only become visible to iteration when
// CommitPending runs, so nothing is inserted into a container while it is
// being walked.
type Registry struct {
	nextID EntityID

	dynamic *SparseSet[Dynamic]
	passive []Entity
	lights  []Entity

	pendingDynamic []pendingDynamic
	pendingPassive []Entity
	pendingLights  []Entity
}

func NewRegistry() *Registry {
	return &Registry{dynamic: NewSparseSet[Dynamic]()}
}

// RegisterDynamic assigns a new id to e and stages it for the next commit.
func (r *Registry) RegisterDynamic(e Dynamic) EntityID {
	if r == nil || e == nil {
		return 0
	}
	r.nextID++
	id := r.nextID
	r.pendingDynamic = append(r.pendingDynamic, pendingDynamic{id: id, entity: e})
	return id
}

// RegisterPassive stages a passive entity for the next commit.
func (r *Registry) RegisterPassive(e Entity) {
	if r == nil || e == nil {
		return
	}
	r.pendingPassive = append(r.pendingPassive, e)
}

// RegisterLight stages a light for the next commit.
func (r *Registry) RegisterLight(e Entity) {
	if r == nil || e == nil {
		return
	}
	r.pendingLights = append(r.pendingLights, e)
}

// CommitPending moves every pending entity into the live containers.
// Ordered containers keep the registration order.
func (r *Registry) CommitPending() {
	if r == nil {
		return
	}
	for _, p := range r.pendingDynamic {
		r.dynamic.Set(p.id, p.entity)
	}
	clear(r.pendingDynamic)
	r.pendingDynamic = r.pendingDynamic[:0]

	r.passive = append(r.passive, r.pendingPassive...)
	clear(r.pendingPassive)
	r.pendingPassive = r.pendingPassive[:0]

	r.lights = append(r.lights, r.pendingLights...)
	clear(r.pendingLights)
	r.pendingLights = r.pendingLights[:0]
}

// ReapRemoved drops every live entity whose removal flag is set, releasing
// its physics resources first. Removals are collected before anything is
// mutated.
func (r *Registry) ReapRemoved() int {
	if r == nil {
		return 0
	}

	var doomed []EntityID
	ids := r.dynamic.IDs()
	for i, e := range r.dynamic.Values() {
		if e.Removed() {
			doomed = append(doomed, ids[i])
		}
	}
	for _, id := range doomed {
		e, ok := r.dynamic.Get(id)
		if !ok {
			continue
		}
		e.Cleanup()
		r.dynamic.Remove(id)
	}

	reaped := len(doomed)
	var n int
	r.passive, n = reapSlice(r.passive)
	reaped += n
	r.lights, n = reapSlice(r.lights)
	reaped += n
	return reaped
}

// reapSlice rebuilds entities without the removed ones.
func reapSlice(entities []Entity) ([]Entity, int) {
	removed := 0
	for _, e := range entities {
		if e.Removed() {
			removed++
		}
	}
	if removed == 0 {
		return entities, 0
	}
	kept := make([]Entity, 0, len(entities)-removed)
	for _, e := range entities {
		if e.Removed() {
			e.Cleanup()
			continue
		}
		kept = append(kept, e)
	}
	return kept, removed
}

// Update runs the per-frame hook of every live entity: dynamic first so
// passive entities (camera, fields) see this tick's transforms.
func (r *Registry) Update(dt float32) {
	if r == nil {
		return
	}
	for _, e := range r.dynamic.Values() {
		e.Update(dt)
	}
	for _, e := range r.passive {
		e.Update(dt)
	}
	for _, e := range r.lights {
		e.Update(dt)
	}
}

// Draw submits every live entity that has not been flagged for removal.
func (r *Registry) Draw(rd Renderer) {
	if r == nil || rd == nil {
		return
	}
	for _, e := range r.lights {
		if !e.Removed() {
			e.Draw(rd)
		}
	}
	for _, e := range r.passive {
		if !e.Removed() {
			e.Draw(rd)
		}
	}
	for _, e := range r.dynamic.Values() {
		if !e.Removed() {
			e.Draw(rd)
		}
	}
}

// Dynamic returns the live dynamic entity with id.
func (r *Registry) Dynamic(id EntityID) (Dynamic, bool) {
	if r == nil {
		return nil, false
	}
	return r.dynamic.Get(id)
}

// LookupDynamicByType finds a live dynamic entity whose type label equals
// label, ignoring case.
func (r *Registry) LookupDynamicByType(label string) (Dynamic, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.dynamic.Values() {
		if strings.EqualFold(e.Type(), label) {
			return e, true
		}
	}
	return nil, false
}

// LookupByType searches the dynamic entities, then the passive ones.
func (r *Registry) LookupByType(label string) (Entity, bool) {
	if e, ok := r.LookupDynamicByType(label); ok {
		return e, true
	}
	if r == nil {
		return nil, false
	}
	for _, e := range r.passive {
		if strings.EqualFold(e.Type(), label) {
			return e, true
		}
	}
	return nil, false
}

// EachDynamic calls fn for every live dynamic entity.
func (r *Registry) EachDynamic(fn func(EntityID, Dynamic)) {
	if r == nil || fn == nil {
		return
	}
	ids := r.dynamic.IDs()
	for i, e := range r.dynamic.Values() {
		fn(ids[i], e)
	}
}

// EachPassive calls fn for every live passive entity in order.
func (r *Registry) EachPassive(fn func(Entity)) {
	if r == nil || fn == nil {
		return
	}
	for _, e := range r.passive {
		fn(e)
	}
}

// EachLight calls fn for every live light in order.
func (r *Registry) EachLight(fn func(Entity)) {
	if r == nil || fn == nil {
		return
	}
	for _, e := range r.lights {
		fn(e)
	}
}

// Counts is the number of live entities per kind.
type Counts struct {
	Dynamic int
	Passive int
	Lights  int
}

func (r *Registry) Counts() Counts {
	if r == nil {
		return Counts{}
	}
	return Counts{Dynamic: r.dynamic.Len(), Passive: len(r.passive), Lights: len(r.lights)}
}

// PendingCount is the number of entities waiting for the next commit.
func (r *Registry) PendingCount() int {
	if r == nil {
		return 0
	}
	return len(r.pendingDynamic) + len(r.pendingPassive) + len(r.pendingLights)
}

// Clear releases every entity, live and pending. Used at world teardown.
func (r *Registry) Clear() {
	if r == nil {
		return
	}
	r.CommitPending()
	for _, e := range r.dynamic.Values() {
		e.Cleanup()
	}
	for _, e := range r.passive {
		e.Cleanup()
	}
	for _, e := range r.lights {
		e.Cleanup()
	}
	r.dynamic.Clear()
	r.passive = nil
	r.lights = nil
}
