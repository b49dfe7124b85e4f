package trade

import "github.com/mcdev12/mockdraft/go/internal/models"

// Verdict summarizes which side a proposal favors.
type Verdict string

const (
	VerdictFavorsReceiver Verdict = "FAVORS_RECEIVER"
	VerdictFair           Verdict = "FAIR"
	VerdictFavorsProposer Verdict = "FAVORS_PROPOSER"
)

// Fairness is the value comparison of a proposal from the receiver's side.
type Fairness struct {
	Ratio   float64 `json:"ratio"`
	Verdict Verdict `json:"verdict"`
}

// Evaluate compares offered value to requested value.
func Evaluate(p models.TradeProposal) Fairness {
	ratio := 1.0
	if p.RequestedValue > 0 {
		ratio = p.OfferedValue / p.RequestedValue
	}
	verdict := VerdictFavorsProposer
	switch {
	case ratio >= 1.1:
		verdict = VerdictFavorsReceiver
	case ratio >= 0.9:
		verdict = VerdictFair
	}
	return Fairness{Ratio: ratio, Verdict: verdict}
}

// Acceptable reports whether a policy-controlled receiver should take the deal.
func Acceptable(p models.TradeProposal) bool {
	return Evaluate(p).Ratio >= 1.0
}
