package player

import (
	"math"
	"testing"
)

func TestAbilityBudgetNineCoins(t *testing.T) {
	b := NewAbilityBudget(9, 5, 1, 0.7)
	if got, want := b.DecayPerCoin(), 4.0/9.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("DecayPerCoin() = %v, want %v", got, want)
	}

	steps := []struct {
		collected  int
		dash       bool
		doubleJump bool
	}{
		{1, true, true},
		{2, true, true},
		{3, false, true},
		{4, false, true},
		{5, false, true},
		{6, false, false},
		{9, false, false},
	}
	for _, s := range steps {
		for b.CoinsCollected() < s.collected {
			b.OnCoinCollected()
		}
		if b.DashAllowed() != s.dash {
			t.Fatalf("collected=%d DashAllowed() = %v, want %v", s.collected, b.DashAllowed(), s.dash)
		}
		if b.DoubleJumpAllowed() != s.doubleJump {
			t.Fatalf("collected=%d DoubleJumpAllowed() = %v, want %v", s.collected, b.DoubleJumpAllowed(), s.doubleJump)
		}
		if s.collected == 3 {
			if math.Abs(b.Ratio()-1.0/3.0) > 1e-12 {
				t.Fatalf("Ratio() = %v, want 1/3", b.Ratio())
			}
			if want := 5 - 3*(4.0/9.0); math.Abs(b.MoveSpeed()-want) > 1e-9 {
				t.Fatalf("MoveSpeed() = %v, want %v", b.MoveSpeed(), want)
			}
		}
	}
	if b.MoveSpeed() != 1 {
		t.Fatalf("MoveSpeed() with all coins = %v, want floor 1", b.MoveSpeed())
	}
}

func TestAbilityBudgetThresholdsExact(t *testing.T) {
	for total := 1; total <= 30; total++ {
		b := NewAbilityBudget(total, 5, 1, 0.7)
		for c := 0; c <= total; c++ {
			ratio := float64(c) / float64(total)
			if got, want := b.DashAllowed(), 3*c < total; got != want {
				t.Fatalf("total=%d collected=%d ratio=%v DashAllowed() = %v", total, c, ratio, got)
			}
			if got, want := b.DoubleJumpAllowed(), 3*c < 2*total; got != want {
				t.Fatalf("total=%d collected=%d ratio=%v DoubleJumpAllowed() = %v", total, c, ratio, got)
			}
			b.OnCoinCollected()
		}
	}
}

func TestAbilityBudgetSpeedMonotonic(t *testing.T) {
	b := NewAbilityBudget(7, 6, 2, 0.7)
	prev := b.MoveSpeed()
	for i := 0; i < 20; i++ {
		b.OnCoinCollected()
		cur := b.MoveSpeed()
		if cur > prev {
			t.Fatalf("speed increased from %v to %v", prev, cur)
		}
		if cur < 2 {
			t.Fatalf("speed %v dropped below floor", cur)
		}
		prev = cur
	}
	if b.CoinsCollected() != 7 {
		t.Fatalf("collected should stop at total, got %d", b.CoinsCollected())
	}
}

func TestAbilityBudgetZeroCoins(t *testing.T) {
	b := NewAbilityBudget(0, 5, 1, 0.7)
	for i := 0; i < 5; i++ {
		b.OnCoinCollected()
		b.SyncRemaining(0)
		if b.Ratio() != 0 {
			t.Fatalf("Ratio() = %v, want 0", b.Ratio())
		}
		if b.MoveSpeed() != 5 {
			t.Fatalf("MoveSpeed() = %v, want 5", b.MoveSpeed())
		}
		if !b.DashAllowed() || !b.DoubleJumpAllowed() {
			t.Fatalf("abilities should never be disabled with zero coins")
		}
		if b.SlideForceScale() != 1 {
			t.Fatalf("SlideForceScale() = %v, want 1", b.SlideForceScale())
		}
	}
}

func TestAbilityBudgetSyncRemaining(t *testing.T) {
	b := NewAbilityBudget(10, 5, 1, 0.7)
	b.SyncRemaining(6)
	if b.CoinsCollected() != 4 {
		t.Fatalf("CoinsCollected() = %d, want 4", b.CoinsCollected())
	}
	b.SyncRemaining(8)
	if b.CoinsCollected() != 4 {
		t.Fatalf("collected must never decrease, got %d", b.CoinsCollected())
	}
	b.SyncRemaining(-3)
	if b.CoinsCollected() != 10 {
		t.Fatalf("CoinsCollected() = %d, want 10", b.CoinsCollected())
	}
}

func TestAbilityBudgetSlideForceScale(t *testing.T) {
	b := NewAbilityBudget(2, 5, 1, 0.7)
	cases := []float64{1, 0.85, 0.7}
	for i, want := range cases {
		if got := b.SlideForceScale(); math.Abs(got-want) > 1e-12 {
			t.Fatalf("after %d coins SlideForceScale() = %v, want %v", i, got, want)
		}
		b.OnCoinCollected()
	}
}

func TestAbilityBudgetFloorAboveInitial(t *testing.T) {
	b := NewAbilityBudget(4, 2, 5, 0.7)
	b.OnCoinCollected()
	if b.MoveSpeed() != 2 {
		t.Fatalf("MoveSpeed() = %v, want 2", b.MoveSpeed())
	}
}
