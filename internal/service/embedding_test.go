package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodfriend/backend/internal/model"
)

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func TestGenerateEmbedding(t *testing.T) {
	tacos := GenerateEmbedding("Fish Tacos").Slice()
	assert.Len(t, tacos, model.EmbeddingDimensions)

	assert.Equal(t, tacos, GenerateEmbedding("fish tacos!").Slice(), "case and punctuation are ignored")

	related := GenerateEmbedding("Beef Tacos").Slice()
	unrelated := GenerateEmbedding("Caesar Salad").Slice()
	assert.Less(t, distance(tacos, related), distance(tacos, unrelated))

	var norm float64
	for _, v := range tacos {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	empty := GenerateEmbedding("").Slice()
	assert.Len(t, empty, model.EmbeddingDimensions)
}
