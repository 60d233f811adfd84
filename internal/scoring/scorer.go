package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Calibration ties raw weighted term frequency to the 0..Cap résumé score.
type Calibration struct {
	Divisor float64
	Cap     float64
}

func DefaultCalibration() Calibration {
	return Calibration{Divisor: 3, Cap: 10}
}

type KeywordMatch struct {
	Term     string  `json:"term"`
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Weight   float64 `json:"weight"`
	Score    float64 `json:"score"`
}

type MissingCategory struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
}

type ResumeAnalysis struct {
	Score             float64           `json:"score"`
	Matches           []KeywordMatch    `json:"matches"`
	MissingCategories []MissingCategory `json:"missing_categories"`
}

type Scorer struct {
	catalog     *Catalog
	calibration Calibration
}

func NewScorer(catalog *Catalog, calibration Calibration) *Scorer {
	if calibration.Divisor <= 0 {
		calibration.Divisor = DefaultCalibration().Divisor
	}
	if calibration.Cap <= 0 {
		calibration.Cap = DefaultCalibration().Cap
	}

	return &Scorer{
		catalog:     catalog,
		calibration: calibration,
	}
}

func (s *Scorer) Catalog() *Catalog {
	return s.catalog
}

// ExtractTerms counts whole-word catalog terms in text and turns them into a
// bounded score. It never fails: empty text yields a zero score with every
// category reported as missing.
func (s *Scorer) ExtractTerms(text string) ResumeAnalysis {
	analysis := ResumeAnalysis{
		Matches:           []KeywordMatch{},
		MissingCategories: []MissingCategory{},
	}

	normalized := strings.ToLower(text)
	found := make(map[string]bool, s.catalog.Len())

	if strings.TrimSpace(normalized) != "" {
		for _, cat := range s.catalog.categories {
			for _, term := range cat.Terms {
				count := CountWholeWord(normalized, term)
				if count == 0 {
					continue
				}
				analysis.Matches = append(analysis.Matches, KeywordMatch{
					Term:     term,
					Category: cat.Name,
					Count:    count,
					Weight:   cat.Weight,
					Score:    float64(count) * cat.Weight,
				})
				found[cat.Name] = true
			}
		}
	}

	for _, cat := range s.catalog.categories {
		if found[cat.Name] {
			continue
		}
		analysis.MissingCategories = append(analysis.MissingCategories, MissingCategory{
			Category:   cat.Name,
			Suggestion: suggestionFor(cat),
		})
	}

	var total float64
	for _, m := range analysis.Matches {
		total += m.Score
	}
	analysis.Score = Round1(math.Min(total/s.calibration.Divisor, s.calibration.Cap))

	return analysis
}

func suggestionFor(cat Category) string {
	terms := cat.Terms
	if len(terms) > 2 {
		terms = terms[:2]
	}
	return fmt.Sprintf("Add: %s", strings.Join(terms, ", "))
}

// CountWholeWord counts non-overlapping occurrences of term in text that are
// not glued to a letter, number or underscore on either side.
func CountWholeWord(text, term string) int {
	if term == "" {
		return 0
	}

	count := 0
	offset := 0
	for offset <= len(text)-len(term) {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(term)

		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			offset = end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return count
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

// isWordRune reports letters, numbers (including superscripts and other
// numerics) and underscore. Combining marks are not word runes.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
