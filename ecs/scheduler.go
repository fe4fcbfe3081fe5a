package ecs

// System updates a world each fixed step.
type System interface {
	Update(w *World)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system once, in insertion order.
func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
