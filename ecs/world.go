package ecs

import "github.com/milk9111/heavypockets/ecs/component"

// World owns entities, their components, the event queue and the physics
// space.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]componentStore)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
