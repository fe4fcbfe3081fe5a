package ecs

import "github.com/milk9111/heavypockets/ecs/component"

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if store, ok := w.stores[kind.ID()]; ok {
		set, _ := store.(*sparseSet[T])
		return set
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]componentStore)
	}
	set := newSparseSet[T]()
	w.stores[kind.ID()] = set
	return set
}

// Add sets the component of e, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	storeFor(w, kind, true).set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store := storeFor(w, kind, false)
	if store == nil {
		return false
	}
	return store.remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	store := storeFor(w, kind, false)
	if store == nil {
		return nil, false
	}
	return store.get(e)
}

// ForEach visits every entity with the component. Components may be added or
// removed and entities destroyed from inside fn.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	store := storeFor(w, kind, false)
	if store == nil || fn == nil {
		return
	}
	for _, e := range store.snapshot() {
		if v, ok := store.get(e); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every entity that has both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, e := range sa.snapshot() {
		a, ok := sa.get(e)
		if !ok {
			continue
		}
		b, ok := sb.get(e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

// First returns the first entity with the component.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	store := storeFor(w, kind, false)
	if store == nil || store.len() == 0 {
		return 0, false
	}
	return store.owners[0], true
}

// Count is the number of entities with the component.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	store := storeFor(w, kind, false)
	if store == nil {
		return 0
	}
	return store.len()
}

// Query returns the entities that have the component.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	store := storeFor(w, kind, false)
	if store == nil {
		return nil
	}
	return store.snapshot()
}
