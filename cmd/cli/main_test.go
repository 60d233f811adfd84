package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/scoring"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestScore_PlaceholderModel(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "score", "--experience", "6", "--crm", "3", "--english", "4", "--degree", "Cursando",
		"--model", filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	var resp models.EvaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Aderente", resp.Status)
	require.NotNil(t, resp.FinalProbability)
	assert.Equal(t, 100.0, *resp.FinalProbability)
	assert.Len(t, resp.MissingTerms, 5)
}

func TestScore_WithModelFile(t *testing.T) {
	t.Chdir(t.TempDir())

	model := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(model, []byte(`{"name":"flat","nodes":[{"feature":-1,"value":0.6}]}`), 0o644))

	out, err := execute(t, "score", "--crm", "2", "--english", "2", "--model", model)
	require.NoError(t, err)

	var resp models.EvaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Potencial", resp.Status)
	assert.Equal(t, 60.0, *resp.BaseProbability)
}

func TestScore_InvalidAttributes(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "score", "--crm", "9")
	require.ErrorIs(t, err, errEvaluationFailed)
	assert.JSONEq(t, `{"status":"Erro"}`, out)
}

func TestScore_MissingResumeFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "score", "--resume", "nope.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume")
}

func TestKeywords(t *testing.T) {
	out, err := execute(t, "keywords")
	require.NoError(t, err)

	var resp models.KeywordsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Categories, 5)
	assert.Equal(t, "#A569BD", resp.Legend["Métricas"])
}

func TestKeywords_SingleCategory(t *testing.T) {
	out, err := execute(t, "keywords", "--category", "CRM")
	require.NoError(t, err)

	var category scoring.Category
	require.NoError(t, json.Unmarshal([]byte(out), &category))
	assert.Equal(t, "CRM", category.Name)
	assert.Equal(t, []string{"crm", "salesforce", "hubspot", "zendesk"}, category.Terms)

	_, err = execute(t, "keywords", "--category", "Vendas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestAnalyze_UnreadableResume(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "analyze", "missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))
	_, err = execute(t, "analyze", "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract resume text")
}

func TestAnalyze_RequiresPath(t *testing.T) {
	_, err := execute(t, "analyze")
	require.Error(t, err)
}
