package component

type Coin struct {
	Index int
}

var CoinComponent = NewComponent[Coin]()

// Collected marks a coin touched by the player during the last physics step.
type Collected struct{}

var CollectedComponent = NewComponent[Collected]()

// CoinCounter is the HUD view of the session coin counters.
type CoinCounter struct {
	Collected    int
	Total        int
	RenderedText string
}

var CoinCounterComponent = NewComponent[CoinCounter]()
