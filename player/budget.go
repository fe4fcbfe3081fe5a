package player

import (
	"math"

	"github.com/milk9111/heavypockets/common"
)

// AbilityBudget turns collected coins into lost abilities. Move speed decays
// linearly toward a floor, dash is lost at one third of the level's coins and
// double jump at two thirds.
type AbilityBudget struct {
	total     int
	collected int

	initialSpeed       float64
	floorSpeed         float64
	decayPerCoin       float64
	minSlideForceScale float64
}

func NewAbilityBudget(totalCoinsAtStart int, initialSpeed, floorSpeed, minSlideForceScale float64) *AbilityBudget {
	b := &AbilityBudget{}
	b.Configure(initialSpeed, floorSpeed, minSlideForceScale)
	b.Reset(totalCoinsAtStart)
	return b
}

// Configure replaces the speed and slide parameters without touching the coin
// count.
func (b *AbilityBudget) Configure(initialSpeed, floorSpeed, minSlideForceScale float64) {
	if b == nil {
		return
	}
	if initialSpeed < 0 || math.IsNaN(initialSpeed) {
		initialSpeed = 0
	}
	if floorSpeed < 0 || math.IsNaN(floorSpeed) {
		floorSpeed = 0
	}
	if floorSpeed > initialSpeed {
		floorSpeed = initialSpeed
	}
	b.initialSpeed = initialSpeed
	b.floorSpeed = floorSpeed
	b.minSlideForceScale = common.Clamp01(minSlideForceScale)
	b.recomputeDecay()
}

// Reset starts a new level (or respawn) with the given coin total.
func (b *AbilityBudget) Reset(totalCoinsAtStart int) {
	if b == nil {
		return
	}
	if totalCoinsAtStart < 0 {
		totalCoinsAtStart = 0
	}
	b.total = totalCoinsAtStart
	b.collected = 0
	b.recomputeDecay()
}

func (b *AbilityBudget) recomputeDecay() {
	if b.total == 0 {
		b.decayPerCoin = 0
		return
	}
	b.decayPerCoin = (b.initialSpeed - b.floorSpeed) / float64(b.total)
}

func (b *AbilityBudget) OnCoinCollected() {
	if b == nil {
		return
	}
	if b.total > 0 && b.collected >= b.total {
		return
	}
	b.collected++
}

// SyncRemaining derives the collected count from the coins still in the
// world. The count never decreases.
func (b *AbilityBudget) SyncRemaining(remaining int) {
	if b == nil || b.total == 0 {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	collected := b.total - remaining
	if collected > b.total {
		collected = b.total
	}
	if collected > b.collected {
		b.collected = collected
	}
}

func (b *AbilityBudget) CoinsCollected() int {
	if b == nil {
		return 0
	}
	return b.collected
}

func (b *AbilityBudget) Total() int {
	if b == nil {
		return 0
	}
	return b.total
}

func (b *AbilityBudget) Ratio() float64 {
	if b == nil || b.total == 0 {
		return 0
	}
	return common.Clamp01(float64(b.collected) / float64(b.total))
}

func (b *AbilityBudget) MoveSpeed() float64 {
	if b == nil {
		return 0
	}
	if b.total > 0 && b.collected >= b.total {
		return b.floorSpeed
	}
	return math.Max(b.floorSpeed, b.initialSpeed-float64(b.collected)*b.decayPerCoin)
}

func (b *AbilityBudget) DecayPerCoin() float64 {
	if b == nil {
		return 0
	}
	return b.decayPerCoin
}

// DashAllowed reports ratio < 1/3, compared in integers.
func (b *AbilityBudget) DashAllowed() bool {
	if b == nil || b.total == 0 {
		return true
	}
	return 3*b.collected < b.total
}

// DoubleJumpAllowed reports ratio < 2/3, compared in integers.
func (b *AbilityBudget) DoubleJumpAllowed() bool {
	if b == nil || b.total == 0 {
		return true
	}
	return 3*b.collected < 2*b.total
}

// SlideForceScale goes from 1 with no coins to the configured minimum with all
// of them.
func (b *AbilityBudget) SlideForceScale() float64 {
	if b == nil {
		return 1
	}
	return common.Lerp(1, b.minSlideForceScale, b.Ratio())
}
