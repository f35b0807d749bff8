// internal/knowledge/index_test.go
package knowledge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-intent/internal/common/config"
	"voice-intent/internal/common/logger"
)

// fakeEmbedder returns canned unit vectors per input text.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Enabled() bool { return true }

func (f *fakeEmbedder) Encode(text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func testCfg() config.KnowledgeConfig {
	return config.KnowledgeConfig{
		MinSimilarity: 0.2,
		MinFuzzyScore: 55.0,
	}
}

func testRecords() []Record {
	return []Record{
		{ID: "home_loan", Title: "Home Loan", Description: "Secured housing loan.", Tags: []string{"home", "mortgage"}},
		{ID: "personal_loan", Title: "Personal Loan", Description: "Unsecured personal loan.", Tags: []string{"instant"}},
		{ID: "fixed_deposit", Title: "Fixed Deposit", Description: "Term deposit.", Tags: []string{"fd", "savings"}},
	}
}

func TestQuery_BlankQuestionIsNil(t *testing.T) {
	idx := NewIndex(testRecords(), NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))

	assert.Nil(t, idx.Query(""))
	assert.Nil(t, idx.Query("   "))
}

func TestQuery_EmptyIndexIsNil(t *testing.T) {
	idx := NewIndex(nil, NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))
	assert.Nil(t, idx.Query("home loan rate"))
}

func TestQuery_FuzzyMatchOnTitle(t *testing.T) {
	idx := NewIndex(testRecords(), NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))

	got := idx.Query("tell me about the home loan")
	require.NotNil(t, got)
	assert.Equal(t, "home_loan", got.ID)
}

func TestQuery_FuzzyMatchOnTag(t *testing.T) {
	idx := NewIndex(testRecords(), NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))

	got := idx.Query("what is the fd rate")
	require.NotNil(t, got)
	assert.Equal(t, "fixed_deposit", got.ID)
}

func TestQuery_NoRecordBelowFuzzyThreshold(t *testing.T) {
	idx := NewIndex(testRecords(), NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))

	assert.Nil(t, idx.Query("xyzzy quux plugh"))
}

func TestQuery_SemanticMatchWins(t *testing.T) {
	records := testRecords()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		records[0].SearchText():    {1, 0, 0},
		records[1].SearchText():    {0, 1, 0},
		records[2].SearchText():    {0, 0, 1},
		"best product for a house": {0.9, 0.1, 0},
	}}
	idx := NewIndex(records, emb, testCfg(), logger.NewTestLogger(t))

	got := idx.Query("best product for a house")
	require.NotNil(t, got)
	assert.Equal(t, "home_loan", got.ID)
}

func TestQuery_LowSimilarityFallsBackToFuzzy(t *testing.T) {
	records := testRecords()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		records[0].SearchText(): {1, 0, 0},
		records[1].SearchText(): {0, 1, 0},
		records[2].SearchText(): {0, 0, 1},
		// Nearly orthogonal to every record vector.
		"personal loan details": {0.1, 0.1, 0.1},
	}}
	idx := NewIndex(records, emb, testCfg(), logger.NewTestLogger(t))

	got := idx.Query("personal loan details")
	require.NotNil(t, got)
	assert.Equal(t, "personal_loan", got.ID)
}

func TestQuery_EncodeErrorFallsBackToFuzzy(t *testing.T) {
	records := testRecords()
	goodDuringBuild := &fakeEmbedder{vectors: map[string][]float32{}}
	idx := NewIndex(records, goodDuringBuild, testCfg(), logger.NewTestLogger(t))
	// Simulate a runtime failure after the index was built.
	idx.embedder = &fakeEmbedder{err: errors.New("session closed")}

	got := idx.Query("fixed deposit")
	require.NotNil(t, got)
	assert.Equal(t, "fixed_deposit", got.ID)
}

func TestNewIndex_BuildFailureDegradesToFuzzy(t *testing.T) {
	idx := NewIndex(testRecords(), &fakeEmbedder{err: errors.New("encode failed")}, testCfg(), logger.NewTestLogger(t))
	assert.Nil(t, idx.vectors)

	got := idx.Query("home loan")
	require.NotNil(t, got)
	assert.Equal(t, "home_loan", got.ID)
}

func TestQuery_ReturnsCopy(t *testing.T) {
	idx := NewIndex(testRecords(), NewDisabledEmbedder(), testCfg(), logger.NewTestLogger(t))

	got := idx.Query("home loan")
	require.NotNil(t, got)
	got.Title = "mutated"

	again := idx.Query("home loan")
	require.NotNil(t, again)
	assert.Equal(t, "Home Loan", again.Title)
}
