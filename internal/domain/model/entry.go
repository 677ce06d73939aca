package model

import (
	"slices"
	"time"
)

// NicheOther is the niche that requires a free-text elaboration in OtherNiche.
const NicheOther = "Outros"

// Recommend answers counted by the stats endpoint.
const (
	RecommendYes = "Sim"
	RecommendNo  = "Não"
)

// WhitelistEntry is one submitted registration. Its JSON form is the on-disk format.
type WhitelistEntry struct {
	Name       string    `json:"name" validate:"required"`
	Phone      string    `json:"phone" validate:"required"`
	Email      string    `json:"email" validate:"required"`
	Company    string    `json:"company" validate:"required"`
	Niches     []string  `json:"niches" validate:"required,min=1"`
	OtherNiche *string   `json:"other_niche"`
	Recommend  *string   `json:"recommend"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasNiche reports whether niche was selected.
func (e *WhitelistEntry) HasNiche(niche string) bool {
	return slices.Contains(e.Niches, niche)
}

// Welcome builds the notification payload for this entry.
func (e *WhitelistEntry) Welcome() Welcome {
	return Welcome{
		Name:    e.Name,
		Email:   e.Email,
		Phone:   e.Phone,
		Company: e.Company,
		Niches:  slices.Clone(e.Niches),
	}
}

// Record is a stored entry as a mapping from field name to value.
// Listing returns records verbatim, including fields this version does not know about.
type Record map[string]any

// String returns the text value of field, or "" when it is missing or not text.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Strings returns the text elements of a list field, skipping anything that is not text.
func (r Record) Strings(field string) []string {
	raw, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Stats is the aggregate view served to the admin dashboard.
type Stats struct {
	TotalEntries       int            `json:"total_entries"`
	NichesDistribution map[string]int `json:"niches_distribution"`
	Recommendations    map[string]int `json:"recommendations"`
}
