// Package odds turns wager totals into the two odds conventions shown to users:
// a decimal payout multiplier and an American odds string.
package odds

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// EvenMultiplier is the payout multiplier for a proposition nobody has bet on.
	EvenMultiplier = 2.0
	// EvenAmerican is the American odds shown for both sides of an unbet proposition.
	EvenAmerican = "+100"

	positiveInfinity = "+∞"
	negativeInfinity = "-∞"
)

// DecimalOdds returns the payout multiplier for each side. A winning stake on
// "Yes" is paid by the "No" pool in proportion to its share, so the multiplier
// is 1 plus the opposing side's fraction of the total.
func DecimalOdds(t Totals) (yes, no float64) {
	total := t.Total()
	if total <= 0 {
		return EvenMultiplier, EvenMultiplier
	}
	yes = float64(t.No)/float64(total) + 1
	no = float64(t.Yes)/float64(total) + 1
	return yes, no
}

// AmericanOdds converts the fraction of the total stake backing one side into
// American odds. Favourites (probability above one half) render as a native
// negative number, underdogs carry an explicit plus sign.
func AmericanOdds(probability float64) string {
	if probability == 0 {
		return positiveInfinity
	}
	if probability == 1 {
		return negativeInfinity
	}
	if probability > 0.5 {
		value := math.Round(-100 * probability / (1 - probability))
		return strconv.FormatInt(int64(value), 10)
	}
	value := math.Round(100 * (1 - probability) / probability)
	return "+" + strconv.FormatInt(int64(value), 10)
}

// AmericanOddsPair returns American odds for both sides. With nothing staked
// both sides are even money rather than the infinities AmericanOdds would give.
func AmericanOddsPair(t Totals) (yes, no string) {
	total := t.Total()
	if total <= 0 {
		return EvenAmerican, EvenAmerican
	}
	yes = AmericanOdds(float64(t.Yes) / float64(total))
	no = AmericanOdds(float64(t.No) / float64(total))
	return yes, no
}

// FormatMultiplier renders a payout multiplier the way the detail views show it, e.g. "1.25x".
func FormatMultiplier(multiplier float64) string {
	return decimal.NewFromFloat(multiplier).StringFixed(2) + "x"
}

// PotentialPayout is what a winning stake returns at the given multiplier, to the cent.
func PotentialPayout(bananas int64, multiplier float64) decimal.Decimal {
	return decimal.NewFromInt(bananas).Mul(decimal.NewFromFloat(multiplier)).Round(2)
}
