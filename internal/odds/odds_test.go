package odds

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestDecimalOddsNoWagers(t *testing.T) {
	yes, no := DecimalOdds(Totals{})
	if yes != 2 || no != 2 {
		t.Fatalf("expected (2, 2), got (%v, %v)", yes, no)
	}
}

func TestDecimalOddsReconstructsProbability(t *testing.T) {
	pairs := []Totals{
		{Yes: 1, No: 0},
		{Yes: 0, No: 7},
		{Yes: 75, No: 25},
		{Yes: 3, No: 9},
		{Yes: 1234, No: 4321},
		{Yes: 1, No: 999999},
	}
	for _, pair := range pairs {
		yes, no := DecimalOdds(pair)
		total := float64(pair.Total())
		if diff := math.Abs((yes - 1) - float64(pair.No)/total); diff > 1e-9 {
			t.Errorf("%+v: yes multiplier %v does not reconstruct no share", pair, yes)
		}
		if diff := math.Abs((no - 1) - float64(pair.Yes)/total); diff > 1e-9 {
			t.Errorf("%+v: no multiplier %v does not reconstruct yes share", pair, no)
		}
		if diff := math.Abs((yes - 1) + (no - 1) - 1); diff > 1e-9 {
			t.Errorf("%+v: shares do not sum to one (%v, %v)", pair, yes, no)
		}
	}
}

func TestAmericanOdds(t *testing.T) {
	cases := []struct {
		probability float64
		want        string
	}{
		{0, "+∞"},
		{1, "-∞"},
		{0.5, "+100"},
		{0.75, "-300"},
		{0.25, "+300"},
		{0.6, "-150"},
		{0.4, "+150"},
		{2.0 / 3.0, "-200"},
		{0.1, "+900"},
	}
	for _, tc := range cases {
		if got := AmericanOdds(tc.probability); got != tc.want {
			t.Errorf("AmericanOdds(%v) = %q, want %q", tc.probability, got, tc.want)
		}
	}
}

func TestAmericanOddsPair(t *testing.T) {
	yes, no := AmericanOddsPair(Totals{})
	if yes != "+100" || no != "+100" {
		t.Fatalf("zero totals: got (%s, %s)", yes, no)
	}

	yes, no = AmericanOddsPair(Totals{Yes: 100, No: 0})
	if yes != "-∞" || no != "+∞" {
		t.Fatalf("one-sided totals: got (%s, %s)", yes, no)
	}

	yes, no = AmericanOddsPair(Totals{Yes: 75, No: 25})
	if yes != "-300" || no != "+300" {
		t.Fatalf("75/25 totals: got (%s, %s)", yes, no)
	}
}

func TestAggregate(t *testing.T) {
	propA := uuid.New()
	propB := uuid.New()
	propC := uuid.New()

	stakes := []Stake{
		{PropID: propB, Prediction: false, Bananas: 5},
		{PropID: propA, Prediction: true, Bananas: 10},
		{PropID: propB, Prediction: true, Bananas: 20},
		{PropID: propA, Prediction: false, Bananas: 3},
		{PropID: propA, Prediction: true, Bananas: 7},
	}

	totals := Aggregate(stakes)
	if got := totals[propA]; got != (Totals{Yes: 17, No: 3}) {
		t.Errorf("prop A totals = %+v", got)
	}
	if got := totals[propB]; got != (Totals{Yes: 20, No: 5}) {
		t.Errorf("prop B totals = %+v", got)
	}
	if _, ok := totals[propC]; ok {
		t.Errorf("prop without stakes should be absent")
	}
	if got := totals[propC]; got != (Totals{}) {
		t.Errorf("missing prop should read as zero totals, got %+v", got)
	}

	var want, sum int64
	for _, stake := range stakes {
		want += stake.Bananas
	}
	for _, total := range totals {
		sum += total.Yes + total.No
	}
	if sum != want {
		t.Errorf("aggregated %d bananas, staked %d", sum, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if totals := Aggregate(nil); len(totals) != 0 {
		t.Fatalf("expected empty aggregation, got %v", totals)
	}
}

func TestReaggregationIsStable(t *testing.T) {
	prop := uuid.New()
	stakes := []Stake{
		{PropID: prop, Prediction: true, Bananas: 40},
		{PropID: prop, Prediction: false, Bananas: 60},
	}
	firstYes, firstNo := AmericanOddsPair(Aggregate(stakes)[prop])
	secondYes, secondNo := AmericanOddsPair(Aggregate(stakes)[prop])
	if firstYes != secondYes || firstNo != secondNo {
		t.Fatalf("odds changed between runs: (%s, %s) vs (%s, %s)", firstYes, firstNo, secondYes, secondNo)
	}
	if Sum(stakes) != Aggregate(stakes)[prop] {
		t.Fatalf("Sum and Aggregate disagree")
	}
}

func TestFormatMultiplierAndPayout(t *testing.T) {
	if got := FormatMultiplier(1.25); got != "1.25x" {
		t.Errorf("FormatMultiplier(1.25) = %q", got)
	}
	if got := FormatMultiplier(2); got != "2.00x" {
		t.Errorf("FormatMultiplier(2) = %q", got)
	}
	if got := PotentialPayout(40, 1.6).StringFixed(2); got != "64.00" {
		t.Errorf("PotentialPayout(40, 1.6) = %s", got)
	}
}
