package levels

import "time"

// MusicState is where the background track was when the scene last changed,
// so the next scene resumes instead of restarting.
type MusicState struct {
	Saved       bool
	Position    time.Duration
	LoopPlaying bool
}

// Session is the level-wide state that outlives a single world: coin
// counters across deaths and levels plus the music position.
type Session struct {
	LevelName      string
	LevelIndex     int
	LevelCoins     int
	CurrentCoins   int
	TotalCollected int
	Deaths         int
	Music          MusicState
}

func NewSession() *Session {
	return &Session{}
}

// BeginLevel starts (or restarts) a level with coinCount coins placed.
func (s *Session) BeginLevel(index int, name string, coinCount int) {
	if s == nil {
		return
	}
	if coinCount < 0 {
		coinCount = 0
	}
	s.LevelIndex = index
	s.LevelName = name
	s.LevelCoins = coinCount
	s.CurrentCoins = 0
}

// CollectCoin counts one pickup. It reports false once every coin of the
// level has been counted.
func (s *Session) CollectCoin() bool {
	if s == nil || s.CurrentCoins >= s.LevelCoins {
		return false
	}
	s.CurrentCoins++
	return true
}

// Die drops the coins picked up in the current attempt.
func (s *Session) Die() {
	if s == nil {
		return
	}
	s.CurrentCoins = 0
	s.Deaths++
}

// CompleteLevel banks the current coins into the run total.
func (s *Session) CompleteLevel() {
	if s == nil {
		return
	}
	s.TotalCollected += s.CurrentCoins
	s.CurrentCoins = 0
}

func (s *Session) SaveMusic(pos time.Duration, loopPlaying bool) {
	if s == nil {
		return
	}
	if pos < 0 {
		pos = 0
	}
	s.Music = MusicState{Saved: true, Position: pos, LoopPlaying: loopPlaying}
}

// Remaining is the number of coins still in the world.
func (s *Session) Remaining() int {
	if s == nil {
		return 0
	}
	return s.LevelCoins - s.CurrentCoins
}

// Ratio is the collected fraction of the level's coins, 0 for a coinless level.
func (s *Session) Ratio() float64 {
	if s == nil || s.LevelCoins == 0 {
		return 0
	}
	return float64(s.CurrentCoins) / float64(s.LevelCoins)
}
