package odds

import "github.com/google/uuid"

// Stake is the slice of a wager record the aggregator needs.
type Stake struct {
	PropID     uuid.UUID `json:"prop_id"`
	Prediction bool      `json:"prediction"`
	Bananas    int64     `json:"bananas"`
}

// Totals holds the bananas staked on each side of a proposition.
type Totals struct {
	Yes int64 `json:"yes"`
	No  int64 `json:"no"`
}

// Total returns the combined stake across both sides.
func (t Totals) Total() int64 {
	return t.Yes + t.No
}

// Aggregate groups stakes by proposition and sums bananas per side.
// Stakes may arrive in any order and for any mix of propositions. A proposition
// with no stakes is absent from the result; reading a missing key yields the
// zero Totals, which is the (0, 0) case.
func Aggregate(stakes []Stake) map[uuid.UUID]Totals {
	totals := make(map[uuid.UUID]Totals)
	for _, stake := range stakes {
		t := totals[stake.PropID]
		if stake.Prediction {
			t.Yes += stake.Bananas
		} else {
			t.No += stake.Bananas
		}
		totals[stake.PropID] = t
	}
	return totals
}

// Sum is Aggregate for stakes already known to belong to one proposition.
func Sum(stakes []Stake) Totals {
	var t Totals
	for _, stake := range stakes {
		if stake.Prediction {
			t.Yes += stake.Bananas
		} else {
			t.No += stake.Bananas
		}
	}
	return t
}
