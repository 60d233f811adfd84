package models

import "talentscope/cs-evaluator/internal/scoring"

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

// EvaluateRequest mirrors the candidate form. Numeric fields arrive as text
// so that malformed values can be told apart from missing ones.
type EvaluateRequest struct {
	ExperienceMonths string `form:"experience_months" json:"experience_months"`
	CRMKnowledge     string `form:"crm_knowledge" json:"crm_knowledge"`
	English          string `form:"english" json:"english"`
	Degree           string `form:"degree" json:"degree"`
	DocumentID       string `form:"document_id" json:"document_id"`
}

type EvaluateResponse struct {
	Status           string                    `json:"status"`
	FinalProbability *float64                  `json:"final_probability,omitempty"`
	BaseProbability  *float64                  `json:"base_probability,omitempty"`
	Bonus            *float64                  `json:"bonus,omitempty"`
	MatchedKeywords  []KeywordLabel            `json:"matched_keywords,omitempty"`
	MissingTerms     []scoring.MissingCategory `json:"missing_terms,omitempty"`
}

// NewEvaluateResponse flattens an outcome; failures carry only the status.
func NewEvaluateResponse(outcome EvaluationOutcome) EvaluateResponse {
	if !outcome.OK() {
		return EvaluateResponse{Status: string(StatusErro)}
	}

	r := outcome.Result
	final, base, bonus := r.FinalProbability, r.BaseProbability, r.Bonus
	return EvaluateResponse{
		Status:           string(r.Status),
		FinalProbability: &final,
		BaseProbability:  &base,
		Bonus:            &bonus,
		MatchedKeywords:  r.MatchedKeywords,
		MissingTerms:     r.MissingTerms,
	}
}

// KeywordsResponse lists the catalog; Legend maps each category to the color
// the UI uses for it.
type KeywordsResponse struct {
	Categories []scoring.Category `json:"categories"`
	Legend     map[string]string  `json:"legend"`
}

// NewKeywordsResponse builds the response for every category of catalog.
func NewKeywordsResponse(catalog *scoring.Catalog) KeywordsResponse {
	return KeywordsResponse{
		Categories: catalog.Categories(),
		Legend:     catalog.ColorMap(),
	}
}
