package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	responses  []string
	errs       []error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	s.lastPrompt = prompt
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no more responses")
}

func TestGemini_Predict(t *testing.T) {
	stub := &stubGenerator{responses: []string{"```json\n{\"probability\": 0.82}\n```"}}
	g := NewGemini(stub, 3, zap.NewNop())

	p, err := g.Predict(context.Background(), [4]float64{6, 4, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.82, p)
	assert.Equal(t, 1, stub.calls)
	assert.True(t, strings.Contains(stub.lastPrompt, "Experience: 6 months"))
	assert.True(t, strings.Contains(stub.lastPrompt, "Degree status: Cursando"))
}

func TestGemini_PredictRetries(t *testing.T) {
	stub := &stubGenerator{
		errs:      []error{errors.New("unavailable"), nil},
		responses: []string{"", `{"probability": "0.4"}`},
	}
	g := NewGemini(stub, 2, zap.NewNop())

	p, err := g.Predict(context.Background(), [4]float64{0, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.4, p)
	assert.Equal(t, 2, stub.calls)
}

func TestGemini_PredictGivesUp(t *testing.T) {
	boom := errors.New("quota exceeded")
	stub := &stubGenerator{errs: []error{boom, boom}}
	g := NewGemini(stub, 2, zap.NewNop())

	_, err := g.Predict(context.Background(), [4]float64{0, 1, 1, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestParseProbability_Invalid(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"score": 0.5}`,
		`{"probability": 1.2}`,
		`{"probability": -0.1}`,
		`{"probability": "high"}`,
	} {
		_, err := parseProbability(raw)
		assert.Error(t, err, raw)
	}
}

func TestBuildFitPrompt(t *testing.T) {
	prompt := BuildFitPrompt([4]float64{6.5, 3, 4, 1})
	assert.Contains(t, prompt, "- Experience: 6.5 months")
	assert.Contains(t, prompt, "- CRM knowledge (1-5): 3")
	assert.Contains(t, prompt, "- English proficiency (1-5): 4")
	assert.Contains(t, prompt, "- Degree status: Cursando")

	prompt = BuildFitPrompt([4]float64{12, 1, 1, 0})
	assert.Contains(t, prompt, "- Experience: 12 months")
	assert.Contains(t, prompt, "- Degree status: Completo")
}
