package component

type Hazard struct{}

var HazardComponent = NewComponent[Hazard]()

type Goal struct{}

var GoalComponent = NewComponent[Goal]()
