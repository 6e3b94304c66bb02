package semantic

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// runMeanPooledInference feeds token ids through the session and mean-pools
// the last hidden state into a single fixed-length sentence vector, the
// standard way small sentence-embedding ONNX exports are consumed.
func runMeanPooledInference(session *ort.DynamicAdvancedSession, ids []uint32, dimensions int) ([]float32, error) {
	seqLen := len(ids)

	inputIDs := make([]int64, seqLen)
	attentionMask := make([]int64, seqLen)
	for i, id := range ids {
		inputIDs[i] = int64(id)
		attentionMask[i] = 1
	}

	shape := ort.NewShape(1, int64(seqLen))
	idTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("build input_ids tensor: %w", err)
	}
	defer idTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("build attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outShape := ort.NewShape(1, int64(seqLen), int64(dimensions))
	outTensor, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("build output tensor: %w", err)
	}
	defer outTensor.Destroy()

	if err := session.Run([]ort.Value{idTensor, maskTensor}, []ort.Value{outTensor}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	hidden := outTensor.GetData()
	return meanPool(hidden, seqLen, dimensions), nil
}

// meanPool averages the per-token hidden states into one sentence vector,
// the pooling strategy matching the sentence-transformers models this
// engine targets.
func meanPool(hidden []float32, seqLen, dimensions int) []float32 {
	out := make([]float32, dimensions)
	if seqLen == 0 {
		return out
	}
	for t := 0; t < seqLen; t++ {
		base := t * dimensions
		for d := 0; d < dimensions; d++ {
			out[d] += hidden[base+d]
		}
	}
	inv := 1.0 / float32(seqLen)
	for d := range out {
		out[d] *= inv
	}
	return out
}
