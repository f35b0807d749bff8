// internal/knowledge/embedder.go
package knowledge

import (
	"fmt"
	"math"
	"os"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"voice-intent/internal/common/config"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/onnx"
)

// Embedder encodes text into a dense vector for nearest-neighbour search.
// A disabled embedder is the normal state when model assets are missing;
// downstream code checks only Enabled, never asset presence.
type Embedder interface {
	Enabled() bool
	Encode(text string) ([]float32, error)
}

// NewDisabledEmbedder returns the no-capability variant.
func NewDisabledEmbedder() Embedder {
	return disabledEmbedder{}
}

type disabledEmbedder struct{}

func (disabledEmbedder) Enabled() bool { return false }

func (disabledEmbedder) Encode(string) ([]float32, error) {
	return nil, fmt.Errorf("embedder disabled")
}

// onnxEmbedder runs a sentence-embedding model, mean-pools the token
// embeddings, and L2-normalises so inner product equals cosine similarity.
type onnxEmbedder struct {
	session    *ort.DynamicAdvancedSession
	tk         *tokenizer.Tokenizer
	maxLen     int
	hiddenSize int
}

// NewEmbedder probes the embedding model assets. Any failure yields the
// disabled variant with the reason logged; construction never fails.
func NewEmbedder(cfg config.KnowledgeConfig, runtimePath string, log logger.Logger) Embedder {
	log = log.With(map[string]interface{}{"component": "embedder"})

	if cfg.EmbedderModelPath == "" || cfg.EmbedderTokenizerPath == "" {
		log.Info("no embedding model configured, fuzzy fallback only", nil)
		return NewDisabledEmbedder()
	}

	for _, asset := range []string{cfg.EmbedderModelPath, cfg.EmbedderTokenizerPath} {
		if _, err := os.Stat(asset); err != nil {
			log.Warn("embedding model asset missing, fuzzy fallback only", map[string]interface{}{
				"asset": asset,
			})
			return NewDisabledEmbedder()
		}
	}

	if err := onnx.Init(runtimePath); err != nil {
		log.WithError(err).Warn("onnx runtime unavailable, fuzzy fallback only", nil)
		return NewDisabledEmbedder()
	}

	tk, err := pretrained.FromFile(cfg.EmbedderTokenizerPath)
	if err != nil {
		log.WithError(err).Warn("embedding tokenizer invalid, fuzzy fallback only", nil)
		return NewDisabledEmbedder()
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.EmbedderModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil,
	)
	if err != nil {
		log.WithError(err).Warn("embedding model invalid, fuzzy fallback only", nil)
		return NewDisabledEmbedder()
	}

	log.Info("embedding model loaded", map[string]interface{}{
		"modelPath": cfg.EmbedderModelPath,
	})
	return &onnxEmbedder{
		session:    session,
		tk:         tk,
		maxLen:     cfg.MaxSequenceLength,
		hiddenSize: cfg.EmbedderHiddenSize,
	}
}

func (e *onnxEmbedder) Enabled() bool { return true }

func (e *onnxEmbedder) Encode(text string) ([]float32, error) {
	en, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, e.maxLen)
	mask := make([]int64, e.maxLen)
	tokens := 0
	for i := 0; i < e.maxLen && i < len(en.Ids); i++ {
		ids[i] = int64(en.Ids[i])
		mask[i] = 1
		tokens++
	}
	if tokens == 0 {
		return nil, fmt.Errorf("empty encoding")
	}

	seqLen := int64(e.maxLen)
	inputTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), ids)
	if err != nil {
		return nil, err
	}
	defer inputTensor.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, seqLen), mask)
	if err != nil {
		return nil, err
	}
	defer maskTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seqLen, int64(e.hiddenSize)))
	if err != nil {
		return nil, err
	}
	defer outputTensor.Destroy()

	err = e.session.Run(
		[]ort.ArbitraryTensor{inputTensor, maskTensor},
		[]ort.ArbitraryTensor{outputTensor},
	)
	if err != nil {
		return nil, err
	}

	return meanPool(outputTensor.GetData(), mask, e.hiddenSize), nil
}

// meanPool averages token embeddings over unmasked positions and
// L2-normalises the result.
func meanPool(hidden []float32, mask []int64, hiddenSize int) []float32 {
	out := make([]float32, hiddenSize)
	var count float32
	for pos, m := range mask {
		if m == 0 {
			continue
		}
		base := pos * hiddenSize
		for d := 0; d < hiddenSize; d++ {
			out[d] += hidden[base+d]
		}
		count++
	}
	if count == 0 {
		return out
	}

	var norm float64
	for d := range out {
		out[d] /= count
		norm += float64(out[d]) * float64(out[d])
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for d := range out {
			out[d] = float32(float64(out[d]) / norm)
		}
	}
	return out
}
