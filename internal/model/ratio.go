package model

// Ratio is the needs/wants/savings percentage split applied to cycle income.
// A committed ratio always sums to exactly 100.
type Ratio struct {
	Needs   int `json:"needs" toml:"needs"`
	Wants   int `json:"wants" toml:"wants"`
	Savings int `json:"savings" toml:"savings"`
}

// DefaultRatio is the classic 50/30/20 split.
var DefaultRatio = Ratio{Needs: 50, Wants: 30, Savings: 20}

// Sum returns the total of the three legs.
func (r Ratio) Sum() int {
	return r.Needs + r.Wants + r.Savings
}

// Percent returns the percentage for one allocation bucket.
func (r Ratio) Percent(c Category) int {
	switch c {
	case CategoryNeeds:
		return r.Needs
	case CategoryWants:
		return r.Wants
	case CategorySavings:
		return r.Savings
	}
	return 0
}
