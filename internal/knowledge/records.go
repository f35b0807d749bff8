// Package knowledge retrieves curated banking product records for free-text
// questions, preferring a semantic index and degrading to fuzzy matching.
package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "voice-intent/internal/common/errors"
	"voice-intent/internal/common/logger"
)

// Record is one curated knowledge entry. The list is loaded once and held
// immutable in memory.
type Record struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Rate        *float64 `yaml:"rate" json:"rate,omitempty"`
	MaxAmount   *float64 `yaml:"maxAmount" json:"maxAmount,omitempty"`
	Tenure      string   `yaml:"tenure" json:"tenure,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
}

// SearchText returns the text the embedder encodes for this record.
func (r Record) SearchText() string {
	parts := []string{r.Title, r.Description}
	if len(r.Tags) > 0 {
		parts = append(parts, strings.Join(r.Tags, " "))
	}
	return strings.Join(parts, " ")
}

// LoadRecords reads the curated records file. A missing or unparsable file
// degrades to "no knowledge available": the returned slice is empty and the
// condition is logged, never fatal.
func LoadRecords(path string, log logger.Logger) []Record {
	log = log.With(map[string]interface{}{"component": "knowledge"})

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(apperrors.NewKnowledgeNotFoundError(path)).Warn("knowledge records file not found, knowledge lookups disabled", nil)
		return nil
	}

	var raw []rawRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.WithError(apperrors.NewKnowledgeParseError(err)).Warn("knowledge records file could not be parsed, knowledge lookups disabled", map[string]interface{}{
			"path": path,
		})
		return nil
	}

	records := make([]Record, 0, len(raw))
	for idx, rr := range raw {
		if rr.skip {
			continue
		}
		rec := rr.record
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("record_%d", idx)
		}
		if rec.Title == "" {
			rec.Title = "Unnamed product"
		}
		if rec.Category == "" {
			rec.Category = "loan"
		}
		if rec.MaxAmount == nil {
			rec.MaxAmount = rr.maxAmountAlt
		}
		records = append(records, rec)
	}

	log.Info("knowledge records loaded", map[string]interface{}{
		"path":  path,
		"count": len(records),
	})
	return records
}

// rawRecord tolerates list entries that are not mappings and the legacy
// max_amount field name.
type rawRecord struct {
	record       Record
	maxAmountAlt *float64
	skip         bool
}

func (rr *rawRecord) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		rr.skip = true
		return nil
	}
	if err := value.Decode(&rr.record); err != nil {
		return err
	}
	var alt struct {
		MaxAmount *float64 `yaml:"max_amount"`
	}
	if err := value.Decode(&alt); err == nil {
		rr.maxAmountAlt = alt.MaxAmount
	}
	return nil
}
