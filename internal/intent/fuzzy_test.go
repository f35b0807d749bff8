// internal/intent/fuzzy_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_KeywordUtterances(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantIntent string
	}{
		{"balance english", "please check my balance", IntentBalanceCheck},
		{"balance hinglish", "balance kitna hai", IntentBalanceCheck},
		{"transfer", "transfer 500 to mom", IntentTransferFunds},
		{"transfer hinglish", "2000 bhejo papa ko", IntentTransferFunds},
		{"history", "show my recent transactions", IntentTransactionHistory},
		{"statement", "get my statement", IntentTransactionHistory},
		{"reminder", "remind me about the rent", IntentSetReminder},
		{"loan", "home loan interest rate", IntentLoanInfo},
		{"emi", "what is my emi", IntentLoanInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.text)
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.GreaterOrEqual(t, got.Score, 65.0)
			assert.LessOrEqual(t, got.Score, 100.0)
		})
	}
}

func TestMatch_Deterministic(t *testing.T) {
	first := Match("transfer my balance statement")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Match("transfer my balance statement"))
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Match("check my balance"), Match("CHECK MY BALANCE"))
}

func TestMatch_GibberishScoresLow(t *testing.T) {
	got := Match("xyzzy quux plugh")
	assert.Less(t, got.Score, 65.0)
}

func TestCandidateIntents_Order(t *testing.T) {
	assert.Equal(t, []string{
		IntentBalanceCheck,
		IntentTransferFunds,
		IntentTransactionHistory,
		IntentSetReminder,
		IntentLoanInfo,
	}, CandidateIntents())
}
