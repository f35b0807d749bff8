// internal/knowledge/index.go
package knowledge

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"voice-intent/internal/common/config"
	apperrors "voice-intent/internal/common/errors"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/metrics"
)

// Index answers free-text product questions. The primary path is a
// nearest-neighbour search over precomputed record embeddings; the fallback
// is fuzzy string matching over record titles and tags. Immutable after
// construction and safe for concurrent queries.
type Index struct {
	records []Record
	vectors [][]float32

	// fuzzy candidate strings in deterministic order, each mapped back to
	// its originating record index.
	candidates      []string
	candidateRecord map[string]int

	minSimilarity float64
	minFuzzyScore float64

	embedder Embedder
	log      logger.Logger
}

// NewIndex builds the index over the loaded records. An embedding failure
// during construction degrades to the fuzzy-only index, never an error.
func NewIndex(records []Record, embedder Embedder, cfg config.KnowledgeConfig, log logger.Logger) *Index {
	idx := &Index{
		records:         records,
		candidateRecord: make(map[string]int),
		minSimilarity:   cfg.MinSimilarity,
		minFuzzyScore:   cfg.MinFuzzyScore,
		embedder:        embedder,
		log:             log.With(map[string]interface{}{"component": "knowledge"}),
	}
	if idx.embedder == nil {
		idx.embedder = NewDisabledEmbedder()
	}

	for i, rec := range records {
		idx.addCandidate(rec.Title, i)
		for _, tag := range rec.Tags {
			idx.addCandidate(rec.Title+" "+tag, i)
		}
	}

	if idx.embedder.Enabled() && len(records) > 0 {
		vectors := make([][]float32, len(records))
		for i, rec := range records {
			vec, err := idx.embedder.Encode(rec.SearchText())
			if err != nil {
				idx.log.WithError(apperrors.NewIndexBuildFailedError(err)).Warn("semantic index build failed, using fuzzy fallback", map[string]interface{}{
					"recordId": rec.ID,
				})
				vectors = nil
				break
			}
			vectors[i] = vec
		}
		idx.vectors = vectors
	}

	return idx
}

// addCandidate keeps the first record that claims a candidate string.
func (idx *Index) addCandidate(s string, record int) {
	if _, exists := idx.candidateRecord[s]; exists {
		return
	}
	idx.candidates = append(idx.candidates, s)
	idx.candidateRecord[s] = record
}

// Query returns the best-matching record, or nil when no record should be
// surfaced. The caller must not fabricate an answer on nil.
func (idx *Index) Query(question string) *Record {
	if strings.TrimSpace(question) == "" {
		return nil
	}
	if len(idx.records) == 0 {
		metrics.KnowledgeQueries.WithLabelValues("none", "miss").Inc()
		return nil
	}

	if idx.vectors != nil {
		if rec := idx.semanticQuery(question); rec != nil {
			metrics.KnowledgeQueries.WithLabelValues("semantic", "hit").Inc()
			return rec
		}
	}

	return idx.fuzzyQuery(question)
}

func (idx *Index) semanticQuery(question string) *Record {
	vec, err := idx.embedder.Encode(question)
	if err != nil {
		idx.log.WithError(apperrors.NewEmbeddingFailedError(err)).Warn("question embedding failed, using fuzzy fallback", nil)
		return nil
	}

	best := -1
	bestScore := 0.0
	for i, rv := range idx.vectors {
		score := innerProduct(vec, rv)
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if best >= 0 && bestScore > idx.minSimilarity {
		rec := idx.records[best]
		return &rec
	}
	return nil
}

func (idx *Index) fuzzyQuery(question string) *Record {
	match, err := fuzzy.ExtractOne(question, idx.candidates)
	if err != nil || match == nil {
		metrics.KnowledgeQueries.WithLabelValues("fuzzy", "miss").Inc()
		return nil
	}
	if float64(match.Score) < idx.minFuzzyScore {
		metrics.KnowledgeQueries.WithLabelValues("fuzzy", "miss").Inc()
		return nil
	}

	metrics.KnowledgeQueries.WithLabelValues("fuzzy", "hit").Inc()
	rec := idx.records[idx.candidateRecord[match.Match]]
	return &rec
}

func innerProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
