package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedIsDeterministic(t *testing.T) {
	a := embed("metastatic breast cancer, stage 4, on trastuzumab")
	b := embed("metastatic breast cancer, stage 4, on trastuzumab")
	assert.Equal(t, a, b)
}

func TestEmbedIsL2Normalized(t *testing.T) {
	vec := embed("type 2 diabetes with chronic kidney disease")
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-6)
}

func TestEmbedHasConfiguredDimension(t *testing.T) {
	assert.Len(t, embed("any text"), embeddingDimension)
}

func TestCosineSimilarityIdenticalVectorsIsOne(t *testing.T) {
	vec := embed("non-small cell lung cancer")
	assert.InDelta(t, 1.0, cosineSimilarity(vec, vec), 1e-9)
}

func TestCosineSimilarityUnrelatedTextIsLow(t *testing.T) {
	a := embed("metastatic breast cancer")
	b := embed("routine dental checkup appointment scheduling")
	sim := cosineSimilarity(a, b)
	assert.Less(t, sim, 0.5)
}

func TestCosineSimilarityMismatchedLengthIsZero(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float64{1, 2}, []float64{1}))
}
