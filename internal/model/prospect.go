// Package model defines the core entities shared across the prospector:
// place-search candidates, enriched prospects, and user subscription records.
package model

// Business is a candidate business as returned by the place search,
// pre-enrichment. Immutable once fetched; detail data overlays optional
// fields but never erases a present value.
type Business struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone,omitempty"`
	Rating  float64  `json:"rating,omitempty"`
	Types   []string `json:"types,omitempty"`
	Website string   `json:"website,omitempty"`
	MapsURL string   `json:"url,omitempty"`
}

// Contact is one person (or the organization's general line) attached to an
// enriched prospect.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EnrichedProspect is the result entity shown to the user: the candidate
// overlaid with detail data, accepted organization fields, a resolved
// industry, and a bounded micro-ticket fit score.
type EnrichedProspect struct {
	Business

	EmployeeCount          int       `json:"employeeCount,omitempty"`
	RevenueBand            string    `json:"revenue,omitempty"`
	EstimatedAnnualRevenue float64   `json:"estimatedAnnualRevenue,omitempty"`
	MarketCap              string    `json:"marketCap,omitempty"`
	FoundedYear            int       `json:"foundedYear,omitempty"`
	Keywords               []string  `json:"keywords,omitempty"`
	Contacts               []Contact `json:"contacts,omitempty"`

	// Industry is always set; precedence is provider > keyword match >
	// category-tag match > "General Business".
	Industry string `json:"industry"`

	// MicroTicketScore is 0..10. Forced to 0 whenever enrichment was
	// skipped or rejected as irrelevant.
	MicroTicketScore int `json:"microTicketScore"`

	EnrichmentError         string `json:"enrichmentError,omitempty"`
	EnrichmentSkippedReason string `json:"enrichmentSkippedReason,omitempty"`
}

// PrimaryContact returns the first contact, if any.
func (p *EnrichedProspect) PrimaryContact() (Contact, bool) {
	if len(p.Contacts) == 0 {
		return Contact{}, false
	}
	return p.Contacts[0], true
}
