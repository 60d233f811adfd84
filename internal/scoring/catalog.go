package scoring

import (
	"fmt"
	"strings"
)

// Category groups the résumé terms that count towards one area of the role.
type Category struct {
	Name   string   `json:"name"`
	Terms  []string `json:"terms"`
	Weight float64  `json:"weight"`
	Color  string   `json:"color"`
}

// Catalog is an ordered, read-only set of keyword categories. It is built once
// at startup and shared by every analysis.
type Catalog struct {
	categories []Category
}

func NewCatalog(categories ...Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog needs at least one category")
	}

	seen := make(map[string]struct{}, len(categories))
	owned := make([]Category, 0, len(categories))

	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category name is required")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate category: %s", name)
		}
		seen[name] = struct{}{}

		if cat.Weight <= 0 {
			return nil, fmt.Errorf("category %s: weight must be positive, got %v", name, cat.Weight)
		}
		if len(cat.Terms) == 0 {
			return nil, fmt.Errorf("category %s: at least one term is required", name)
		}

		terms := make([]string, 0, len(cat.Terms))
		for _, term := range cat.Terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				return nil, fmt.Errorf("category %s: empty term", name)
			}
			terms = append(terms, term)
		}

		owned = append(owned, Category{
			Name:   name,
			Terms:  terms,
			Weight: cat.Weight,
			Color:  cat.Color,
		})
	}

	return &Catalog{categories: owned}, nil
}

// DefaultCatalog returns the Customer Success internship keyword table.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(
		Category{
			Name:   "Customer Success",
			Terms:  []string{"customer success", "cs", "sucesso do cliente"},
			Weight: 3,
			Color:  "#4ECDC4",
		},
		Category{
			Name:   "CRM",
			Terms:  []string{"crm", "salesforce", "hubspot", "zendesk"},
			Weight: 2.5,
			Color:  "#FF6B6B",
		},
		Category{
			Name:   "Atendimento",
			Terms:  []string{"atendimento", "suporte", "sac", "serviço ao cliente"},
			Weight: 2,
			Color:  "#45B7D1",
		},
		Category{
			Name:   "Métricas",
			Terms:  []string{"churn", "nps", "onboarding", "retention"},
			Weight: 1.5,
			Color:  "#A569BD",
		},
		Category{
			Name:   "Soft Skills",
			Terms:  []string{"comunicação", "empatia", "proatividade"},
			Weight: 1,
			Color:  "#F4D03F",
		},
	)
	if err != nil {
		panic(fmt.Sprintf("invalid default catalog: %v", err))
	}
	return catalog
}

func (c *Catalog) Len() int {
	return len(c.categories)
}

// Categories returns a copy of the categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.Terms = append([]string(nil), cat.Terms...)
		out[i] = cat
	}
	return out
}

// Lookup finds a category by name.
func (c *Catalog) Lookup(name string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			cat.Terms = append([]string(nil), cat.Terms...)
			return cat, true
		}
	}
	return Category{}, false
}

// ColorMap maps category names to their display colors.
func (c *Catalog) ColorMap() map[string]string {
	colors := make(map[string]string, len(c.categories))
	for _, cat := range c.categories {
		colors[cat.Name] = cat.Color
	}
	return colors
}
