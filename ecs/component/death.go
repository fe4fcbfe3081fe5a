package component

// DeathRequest is added to the player by hazard and enemy contacts.
type DeathRequest struct{}

var DeathRequestComponent = NewComponent[DeathRequest]()

// Dying marks a frozen player spinning until the level reloads.
type Dying struct {
	Spin    float64
	Elapsed float64
}

var DyingComponent = NewComponent[Dying]()
