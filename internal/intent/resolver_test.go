// internal/intent/resolver_test.go
package intent

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-intent/internal/catalog"
	"voice-intent/internal/common/logger"
)

const testCatalog = `{
	"balance_check": {
		"description": "Check an account balance",
		"sample_utterances": ["what is my balance"],
		"optional_slots": ["account"]
	},
	"transfer_funds": {
		"description": "Move money to another account",
		"sample_utterances": ["transfer 500 to mom"],
		"required_slots": ["amount", "destination"],
		"optional_slots": ["source"]
	},
	"transaction_history": {
		"description": "List recent transactions",
		"sample_utterances": ["show my recent transactions"],
		"optional_slots": ["account"]
	},
	"set_reminder": {
		"description": "Set a payment reminder",
		"sample_utterances": ["remind me about the rent"],
		"required_slots": ["message"],
		"optional_slots": ["due_date"]
	},
	"loan_info": {
		"description": "Explain loan products",
		"sample_utterances": ["home loan interest rate"],
		"optional_slots": ["product"]
	}
}`

// fakePrimary stands in for the learned classifier.
type fakePrimary struct {
	enabled    bool
	prediction Prediction
	err        error
}

func (f *fakePrimary) Enabled() bool { return f.enabled }

func (f *fakePrimary) Predict(string) (Prediction, error) {
	return f.prediction, f.err
}

func testResolver(t *testing.T, primary Primary) *Resolver {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	return NewResolver(DefaultConfig(), cat, primary, logger.NewTestLogger(t))
}

func TestResolve_NilPrimaryUsesFallback(t *testing.T) {
	r := testResolver(t, nil)

	got := r.Resolve("transfer 500 to mom")
	assert.Equal(t, IntentTransferFunds, got.Intent)
	assert.Equal(t, SourceFallbackNoModel, got.Source)
	assert.Equal(t, "500", got.Slots[SlotAmount])
	assert.Equal(t, "mom", got.Slots[SlotDestination])
}

func TestResolve_DisabledPrimaryUsesFallback(t *testing.T) {
	r := testResolver(t, &fakePrimary{enabled: false})

	got := r.Resolve("balance kitna hai")
	assert.Equal(t, IntentBalanceCheck, got.Intent)
	assert.Equal(t, SourceFallbackNoModel, got.Source)
}

func TestResolve_ConfidentModelWins(t *testing.T) {
	r := testResolver(t, &fakePrimary{
		enabled:    true,
		prediction: Prediction{Intent: IntentSetReminder, Confidence: 0.92},
	})

	got := r.Resolve("remind me about the rent tomorrow")
	assert.Equal(t, IntentSetReminder, got.Intent)
	assert.Equal(t, SourceModel, got.Source)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)
	assert.Equal(t, "tomorrow", got.Slots[SlotDueDate])
}

func TestResolve_LowConfidenceFallsBack(t *testing.T) {
	r := testResolver(t, &fakePrimary{
		enabled:    true,
		prediction: Prediction{Intent: IntentLoanInfo, Confidence: 0.4},
	})

	got := r.Resolve("transfer 500 to mom")
	assert.Equal(t, IntentTransferFunds, got.Intent)
	assert.Equal(t, SourceFallbackLowConfidence, got.Source)
}

func TestResolve_ConfidenceAtThresholdIsAccepted(t *testing.T) {
	r := testResolver(t, &fakePrimary{
		enabled:    true,
		prediction: Prediction{Intent: IntentBalanceCheck, Confidence: 0.65},
	})

	got := r.Resolve("what is my balance")
	assert.Equal(t, SourceModel, got.Source)
}

func TestResolve_InferenceErrorFallsBack(t *testing.T) {
	r := testResolver(t, &fakePrimary{
		enabled: true,
		err:     errors.New("session run failed"),
	})

	got := r.Resolve("show my recent transactions")
	assert.Equal(t, IntentTransactionHistory, got.Intent)
	assert.Equal(t, SourceFallbackNoModel, got.Source)
}

func TestResolve_UndeclaredModelLabelFallsBack(t *testing.T) {
	r := testResolver(t, &fakePrimary{
		enabled:    true,
		prediction: Prediction{Intent: "open_account", Confidence: 0.99},
	})

	got := r.Resolve("transfer 500 to mom")
	assert.Equal(t, IntentTransferFunds, got.Intent)
	assert.Equal(t, SourceFallbackNoModel, got.Source)
}

func TestResolve_AmbiguousTextYieldsClarify(t *testing.T) {
	r := testResolver(t, nil)

	got := r.Resolve("the weather is nice today")
	assert.Equal(t, catalog.ClarifyIntent, got.Intent)
	assert.NotNil(t, got.Slots)
	assert.Empty(t, got.Slots)
	assert.True(t, strings.HasPrefix(got.Source, "fallback:"))
}

func TestResolve_ConfidenceAlwaysInUnitRange(t *testing.T) {
	r := testResolver(t, nil)

	utterances := []string{
		"transfer 500 to mom",
		"balance kitna hai",
		"xyzzy quux",
		"",
		"remind me about the rent",
	}
	for _, text := range utterances {
		got := r.Resolve(text)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, "text %q", text)
		assert.LessOrEqual(t, got.Confidence, 1.0, "text %q", text)
	}
}

func TestResolve_IntentAlwaysKnown(t *testing.T) {
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	r := NewResolver(DefaultConfig(), cat, nil, logger.NewTestLogger(t))

	utterances := []string{
		"transfer 500 to mom",
		"what is my balance",
		"gibberish entirely unrelated",
		"home loan rate",
	}
	for _, text := range utterances {
		got := r.Resolve(text)
		if got.Intent != catalog.ClarifyIntent {
			assert.True(t, cat.Has(got.Intent), "intent %q for text %q", got.Intent, text)
		}
	}
}

func TestResolve_FallbackFiltersUndeclaredSlots(t *testing.T) {
	slim := `{
		"transfer_funds": {
			"description": "Move money",
			"sample_utterances": ["transfer 500 to mom"],
			"required_slots": ["amount"]
		}
	}`
	cat, err := catalog.Parse([]byte(slim))
	require.NoError(t, err)
	r := NewResolver(DefaultConfig(), cat, nil, logger.NewTestLogger(t))

	got := r.Resolve("transfer 500 to mom")
	assert.Equal(t, "transfer_funds", got.Intent)
	assert.Equal(t, map[string]string{SlotAmount: "500"}, got.Slots)
}

func TestAsPayload(t *testing.T) {
	i := Interpretation{
		Intent:     IntentBalanceCheck,
		Confidence: 0.7,
		Slots:      map[string]string{SlotAccount: "savings"},
		Source:     SourceModel,
	}
	payload := i.AsPayload()
	assert.Equal(t, IntentBalanceCheck, payload["intent"])
	assert.Equal(t, 0.7, payload["confidence"])
	assert.Equal(t, SourceModel, payload["source"])
}
