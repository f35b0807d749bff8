// internal/intent/classifier.go
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	apperrors "voice-intent/internal/common/errors"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/metrics"
	"voice-intent/internal/common/onnx"
)

var (
	ErrClassifierDisabled = errors.New("MODEL_UNAVAILABLE")
	ErrInferenceFailed    = errors.New("MODEL_INFERENCE_FAILED")
)

// Prediction is the raw model output before threshold checks.
type Prediction struct {
	Intent     string
	Confidence float64
}

// Classifier runs the optional learned intent model. When any required
// asset is missing it is constructed disabled, so downstream code checks
// only Enabled(), never the presence of a runtime.
type Classifier struct {
	cfg     Config
	log     logger.Logger
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
	labels  []string // index -> intent name
	enabled bool
}

// NewClassifier probes the model assets and inference runtime. Every
// degradation path returns a usable, disabled classifier; construction
// never fails.
func NewClassifier(cfg Config, log logger.Logger) *Classifier {
	c := &Classifier{
		cfg: cfg,
		log: log.With(map[string]interface{}{"component": "classifier"}),
	}

	if cfg.ModelPath == "" {
		c.log.Info("no model configured, keyword fallback only", nil)
		return c
	}

	for _, asset := range []string{cfg.ModelPath, cfg.TokenizerPath, cfg.LabelsPath} {
		if _, err := os.Stat(asset); err != nil {
			c.disable("model_assets_missing", apperrors.NewModelAssetsMissingError(asset))
			return c
		}
	}

	if err := onnx.Init(cfg.RuntimePath); err != nil {
		c.disable("model_runtime_missing", apperrors.NewModelRuntimeMissingError(err))
		return c
	}

	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		c.disable("labels_invalid", err)
		return c
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		c.disable("tokenizer_invalid", apperrors.NewTokenizerError(err))
		return c
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		c.disable("model_invalid", err)
		return c
	}

	c.session = session
	c.tk = tk
	c.labels = labels
	c.enabled = true
	c.log.Info("model loaded", map[string]interface{}{
		"modelPath": cfg.ModelPath,
		"labels":    len(labels),
	})
	return c
}

func (c *Classifier) disable(reason string, err error) {
	c.log.WithError(err).Warn("primary classifier disabled", map[string]interface{}{
		"reason": reason,
	})
	metrics.ModelFallbacks.WithLabelValues(reason).Inc()
	c.enabled = false
}

// Enabled reports whether the learned model is available.
func (c *Classifier) Enabled() bool {
	return c.enabled
}

// Close releases the inference session.
func (c *Classifier) Close() error {
	if c.session != nil {
		return c.session.Destroy()
	}
	return nil
}

// Predict tokenizes the utterance, runs inference, and returns the arg-max
// intent with its softmax probability. Errors are per-call conditions the
// resolver treats as "no model available for this call".
func (c *Classifier) Predict(text string) (Prediction, error) {
	if !c.enabled {
		return Prediction{}, ErrClassifierDisabled
	}

	ids, mask, err := c.encode(text)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	seqLen := int64(c.cfg.MaxSequenceLength)
	inputTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), ids)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	defer inputTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), mask)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	defer maskTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(c.labels))))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	defer outputTensor.Destroy()

	err = c.session.Run(
		[]ort.ArbitraryTensor{inputTensor, maskTensor},
		[]ort.ArbitraryTensor{outputTensor},
	)
	if err != nil {
		return Prediction{}, apperrors.NewModelInferenceError(err)
	}

	probabilities := softmax(outputTensor.GetData())
	index := argmax(probabilities)
	if index < 0 || index >= len(c.labels) {
		return Prediction{}, fmt.Errorf("%w: label index %d out of range", ErrInferenceFailed, index)
	}

	return Prediction{
		Intent:     c.labels[index],
		Confidence: probabilities[index],
	}, nil
}

// encode produces fixed-length input ids and attention mask.
func (c *Classifier) encode(text string) ([]int64, []int64, error) {
	en, err := c.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, err
	}

	maxLen := c.cfg.MaxSequenceLength
	ids := make([]int64, maxLen)
	mask := make([]int64, maxLen)
	for i := 0; i < maxLen && i < len(en.Ids); i++ {
		ids[i] = int64(en.Ids[i])
		mask[i] = 1
	}
	return ids, mask, nil
}

// loadLabels reads the label-index-to-intent-name mapping. The file maps
// stringified indices to names, matching the trainer's labels.json.
func loadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}

	indices := make([]int, 0, len(payload))
	byIndex := make(map[int]string, len(payload))
	for key, name := range payload {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("label index %q is not numeric", key)
		}
		indices = append(indices, idx)
		byIndex[idx] = name
	}
	sort.Ints(indices)

	labels := make([]string, 0, len(indices))
	for want, idx := range indices {
		if idx != want {
			return nil, fmt.Errorf("label indices are not contiguous at %d", idx)
		}
		labels = append(labels, byIndex[idx])
	}
	return labels, nil
}

func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	out := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(float64(v - maxLogit))
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func argmax(values []float64) int {
	best := -1
	bestVal := math.Inf(-1)
	for i, v := range values {
		if v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}
