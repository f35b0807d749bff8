// internal/intent/fuzzy.go
package intent

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Builtin intent categories for the deterministic fallback. Order matters:
// candidates are scored in declaration order and a later candidate must beat,
// not equal, the incumbent, so ties resolve to the first-declared intent.
var intentCandidates = []candidate{
	{IntentBalanceCheck, []string{"balance", "kitna", "amount"}},
	{IntentTransferFunds, []string{"transfer", "send", "bhejo", "pay", "deposit"}},
	{IntentTransactionHistory, []string{"transaction", "statement", "history", "recent"}},
	{IntentSetReminder, []string{"remind", "reminder", "alert"}},
	{IntentLoanInfo, []string{"loan", "credit", "interest", "rate", "emi"}},
}

// Names of the builtin fallback intents.
const (
	IntentBalanceCheck       = "balance_check"
	IntentTransferFunds      = "transfer_funds"
	IntentTransactionHistory = "transaction_history"
	IntentSetReminder        = "set_reminder"
	IntentLoanInfo           = "loan_info"
)

type candidate struct {
	intent   string
	keywords []string
}

// MatchResult is the outcome of scoring an utterance against the builtin
// keyword sets. Score is on the fuzzy 0..100 scale.
type MatchResult struct {
	Intent string
	Score  float64
}

// CandidateIntents returns the builtin fallback intent names in scoring order.
func CandidateIntents() []string {
	out := make([]string, len(intentCandidates))
	for i, c := range intentCandidates {
		out[i] = c.intent
	}
	return out
}

// Match scores the utterance against every keyword set and returns the best
// candidate. Pure function of the input, fully deterministic.
func Match(text string) MatchResult {
	lowered := strings.ToLower(text)

	best := MatchResult{Intent: intentCandidates[0].intent}
	for _, c := range intentCandidates {
		score := keywordScore(lowered, c.keywords)
		if score > best.Score {
			best = MatchResult{Intent: c.intent, Score: score}
		}
	}
	return best
}

// keywordScore is the maximum token-set ratio between the utterance and any
// keyword in the set.
func keywordScore(lowered string, keywords []string) float64 {
	best := 0
	for _, kw := range keywords {
		if s := fuzzy.TokenSetRatio(lowered, kw); s > best {
			best = s
		}
	}
	return float64(best)
}
