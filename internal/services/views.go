package services

import (
	"monkeybets/internal/models"
	"monkeybets/internal/odds"

	"github.com/shopspring/decimal"
)

// OddsView carries both renderings of a prop's odds.
type OddsView struct {
	YesMultiplier      float64 `json:"yes_multiplier"`
	NoMultiplier       float64 `json:"no_multiplier"`
	YesMultiplierLabel string  `json:"yes_multiplier_label"`
	NoMultiplierLabel  string  `json:"no_multiplier_label"`
	YesAmerican        string  `json:"yes_american"`
	NoAmerican         string  `json:"no_american"`
}

func newOddsView(totals odds.Totals) OddsView {
	yes, no := odds.DecimalOdds(totals)
	yesAmerican, noAmerican := odds.AmericanOddsPair(totals)
	return OddsView{
		YesMultiplier:      yes,
		NoMultiplier:       no,
		YesMultiplierLabel: odds.FormatMultiplier(yes),
		NoMultiplierLabel:  odds.FormatMultiplier(no),
		YesAmerican:        yesAmerican,
		NoAmerican:         noAmerican,
	}
}

// Multiplier returns the decimal multiplier for one side.
func (o OddsView) Multiplier(prediction bool) float64 {
	if prediction {
		return o.YesMultiplier
	}
	return o.NoMultiplier
}

// Permissions tells the client which actions the viewer may take.
type Permissions struct {
	CanWager     bool `json:"can_wager"`
	CanSetResult bool `json:"can_set_result"`
	CanDelete    bool `json:"can_delete"`
	CanShare     bool `json:"can_share"`
}

// WagerView is a wager with its side and outcome spelled out.
type WagerView struct {
	*models.Wager
	Side    string              `json:"side"`
	Outcome models.WagerOutcome `json:"outcome"`
}

func newWagerView(w *models.Wager, result *bool) WagerView {
	return WagerView{Wager: w, Side: w.Side(), Outcome: w.Outcome(result)}
}

// PropView is the prop detail page.
type PropView struct {
	Prop        *models.Prop     `json:"prop"`
	State       models.PropState `json:"state"`
	Deleted     bool             `json:"deleted"`
	IsCreator   bool             `json:"is_creator"`
	Totals      odds.Totals      `json:"totals"`
	TotalPool   int64            `json:"total_pool"`
	Odds        OddsView         `json:"odds"`
	MyWagers    []WagerView      `json:"my_wagers"`
	Permissions Permissions      `json:"permissions"`
	ShareURL    string           `json:"share_url,omitempty"`
}

// PropSummary is a prop row on the dashboard or history list.
type PropSummary struct {
	Prop        *models.Prop     `json:"prop"`
	State       models.PropState `json:"state"`
	Totals      odds.Totals      `json:"totals"`
	YesAmerican string           `json:"yes_american"`
	NoAmerican  string           `json:"no_american"`
}

// WagerSummary is an active wager row on the dashboard.
type WagerSummary struct {
	WagerView
	State       models.PropState `json:"state"`
	YesAmerican string           `json:"yes_american"`
	NoAmerican  string           `json:"no_american"`
}

// DashboardView is the signed-in home page.
type DashboardView struct {
	CreatedProps []PropSummary  `json:"created_props"`
	ActiveWagers []WagerSummary `json:"active_wagers"`
}

// WagerDetailLine is one of the viewer's wagers with its potential payout.
type WagerDetailLine struct {
	WagerView
	Multiplier      float64         `json:"multiplier"`
	MultiplierLabel string          `json:"multiplier_label"`
	PotentialPayout decimal.Decimal `json:"potential_payout"`
}

// WagerDetailView is the wager detail page.
type WagerDetailView struct {
	Prop                 *models.Prop      `json:"prop"`
	State                models.PropState  `json:"state"`
	Totals               odds.Totals       `json:"totals"`
	Odds                 OddsView          `json:"odds"`
	Wagers               []WagerDetailLine `json:"wagers"`
	TotalStaked          int64             `json:"total_staked"`
	TotalPotentialPayout decimal.Decimal   `json:"total_potential_payout"`
}
