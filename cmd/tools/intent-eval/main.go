// cmd/tools/intent-eval/main.go
//
// Runs the intent resolver against a labelled utterance set and prints
// accuracy plus per-intent precision, recall, and F1. Used to check the
// fallback thresholds after editing the catalog or retraining the model.
//
// Dataset format:
//
//	[{"text": "check my balance", "expected_intent": "balance_check"}, ...]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"voice-intent/internal/catalog"
	"voice-intent/internal/common/config"
	apperrors "voice-intent/internal/common/errors"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/observability"
	"voice-intent/internal/intent"
)

type labelledUtterance struct {
	Text           string `json:"text"`
	ExpectedIntent string `json:"expected_intent"`
}

type intentStats struct {
	tp, fp, fn int
}

func main() {
	dataPath := flag.String("data", "configs/eval-utterances.json", "Path to labelled utterances JSON")
	showErrors := flag.Bool("errors", false, "Print each misclassified utterance")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	cat, err := catalog.Load(cfg.Intent.CatalogPath)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.Is(err, catalog.ErrCatalogNotFound) {
			stdErr = apperrors.NewCatalogNotFoundError(cfg.Intent.CatalogPath)
		} else {
			stdErr = apperrors.NewCatalogInvalidError(err.Error())
		}
		log.WithError(stdErr).Error("catalog load failed", map[string]interface{}{
			"category": apperrors.GetErrorCategory(stdErr.Code),
			"fatal":    apperrors.IsFatal(stdErr.Code),
		})
		fmt.Fprintf(os.Stderr, "Error: load catalog: %v\n", err)
		os.Exit(1)
	}

	utterances, err := loadUtterances(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load dataset: %v\n", err)
		os.Exit(1)
	}
	if len(utterances) == 0 {
		fmt.Fprintln(os.Stderr, "Error: dataset is empty")
		os.Exit(1)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	intentCfg := intent.FromApp(cfg.Intent)
	classifier := intent.NewClassifier(intentCfg, log)
	defer classifier.Close()
	resolver := intent.NewResolver(intentCfg, cat, classifier, log)

	runID := uuid.NewString()
	fmt.Printf("Evaluation run %s (%d utterances, model enabled: %v)\n\n",
		runID, len(utterances), classifier.Enabled())

	correct := 0
	stats := make(map[string]*intentStats)
	support := make(map[string]int)

	ctx := context.Background()
	for _, u := range utterances {
		start := time.Now()
		result := resolver.Resolve(u.Text)
		obs.RecordResolution(ctx, result.Source)
		obs.RecordResolutionDuration(ctx, time.Since(start), result.Source)
		support[u.ExpectedIntent]++

		if result.Intent == u.ExpectedIntent {
			correct++
			statsFor(stats, u.ExpectedIntent).tp++
			continue
		}
		statsFor(stats, u.ExpectedIntent).fn++
		statsFor(stats, result.Intent).fp++
		if *showErrors {
			fmt.Printf("  MISS %-22s got %-22s (%.2f, %s) %q\n",
				u.ExpectedIntent, result.Intent, result.Confidence, result.Source, u.Text)
		}
	}

	fmt.Printf("Accuracy: %.4f (%d/%d)\n\n", float64(correct)/float64(len(utterances)), correct, len(utterances))
	fmt.Printf("%-22s %9s %9s %9s %8s\n", "intent", "precision", "recall", "f1", "support")

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := stats[name]
		precision := ratio(s.tp, s.tp+s.fp)
		recall := ratio(s.tp, s.tp+s.fn)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		fmt.Printf("%-22s %9.4f %9.4f %9.4f %8d\n", name, precision, recall, f1, support[name])
	}
}

func statsFor(m map[string]*intentStats, name string) *intentStats {
	if s, ok := m[name]; ok {
		return s
	}
	s := &intentStats{}
	m[name] = s
	return s
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func loadUtterances(path string) ([]labelledUtterance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []labelledUtterance
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}
