package component

// ReloadCountdown counts fixed-step seconds until the level reloads.
type ReloadCountdown struct {
	Remaining float64
}

var ReloadCountdownComponent = NewComponent[ReloadCountdown]()

// ReloadRequest is a marker component used to signal the game loop to reload
// the current level.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()

// LevelCompleteRequest asks the game loop to advance to the next level.
type LevelCompleteRequest struct{}

var LevelCompleteRequestComponent = NewComponent[LevelCompleteRequest]()
