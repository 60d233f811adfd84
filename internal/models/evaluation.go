package models

import (
	"errors"
	"fmt"

	"talentscope/cs-evaluator/internal/scoring"
)

type FitStatus string

const (
	StatusAderente    FitStatus = "Aderente"
	StatusPotencial   FitStatus = "Potencial"
	StatusNaoAderente FitStatus = "Não Aderente"
	StatusErro        FitStatus = "Erro"
)

const DegreeInProgress = "Cursando"

// CandidateAttributes are the self-reported fields of a submission.
type CandidateAttributes struct {
	ExperienceMonths float64 `json:"experience_months"`
	CRMKnowledge     int     `json:"crm_knowledge"`
	English          int     `json:"english"`
	Degree           string  `json:"degree"`
}

// Features encodes the attributes in classifier input order.
func (a CandidateAttributes) Features() [4]float64 {
	degree := 0.0
	if a.Degree == DegreeInProgress {
		degree = 1
	}
	return [4]float64{a.ExperienceMonths, float64(a.CRMKnowledge), float64(a.English), degree}
}

type KeywordLabel struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

type EvaluationResult struct {
	Status           FitStatus                 `json:"status"`
	FinalProbability float64                   `json:"final_probability"`
	BaseProbability  float64                   `json:"base_probability"`
	Bonus            float64                   `json:"bonus"`
	MatchedKeywords  []KeywordLabel            `json:"matched_keywords"`
	MissingTerms     []scoring.MissingCategory `json:"missing_terms"`
}

type FailureKind string

const (
	FailureInvalidAttributes FailureKind = "invalid_attributes"
	FailureClassifier        FailureKind = "classifier"
	FailureInternal          FailureKind = "internal"
)

type EvaluationFailure struct {
	Kind FailureKind
	Err  error
}

func (f *EvaluationFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *EvaluationFailure) Unwrap() error {
	return f.Err
}

// EvaluationOutcome holds either a Result or a Failure, never both.
type EvaluationOutcome struct {
	Result  *EvaluationResult
	Failure *EvaluationFailure
}

func Succeeded(result *EvaluationResult) EvaluationOutcome {
	return EvaluationOutcome{Result: result}
}

func Failed(kind FailureKind, err error) EvaluationOutcome {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return EvaluationOutcome{Failure: &EvaluationFailure{Kind: kind, Err: err}}
}

func (o EvaluationOutcome) OK() bool {
	return o.Failure == nil && o.Result != nil
}

func (o EvaluationOutcome) Status() FitStatus {
	if !o.OK() {
		return StatusErro
	}
	return o.Result.Status
}
