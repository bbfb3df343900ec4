package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/metrics"
	"github.com/commcap/prospector/internal/model"
	"github.com/commcap/prospector/pkg/apollo"
	"github.com/commcap/prospector/pkg/places"
)

// Detailer fetches the detail record for one place.
type Detailer interface {
	Details(ctx context.Context, placeID string) (*places.Place, error)
}

// Pipeline turns place-search candidates into enriched, scored prospects.
// Candidates are processed strictly sequentially in input order; a failure
// on one candidate never aborts the batch.
type Pipeline struct {
	details Detailer
	orgs    apollo.Client
}

// NewPipeline creates a Pipeline. orgs is typically a CachedOrgClient.
func NewPipeline(details Detailer, orgs apollo.Client) *Pipeline {
	return &Pipeline{details: details, orgs: orgs}
}

// EnrichAll enriches every candidate, preserving input order. The returned
// slice always has len(candidates) entries.
func (p *Pipeline) EnrichAll(ctx context.Context, candidates []model.Business) []model.EnrichedProspect {
	out := make([]model.EnrichedProspect, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, p.enrichOne(ctx, c))
	}
	return out
}

func (p *Pipeline) enrichOne(ctx context.Context, candidate model.Business) model.EnrichedProspect {
	prospect := model.EnrichedProspect{Business: candidate}

	// Detail fetch: overlay non-empty fields, never erase a present one.
	if candidate.ID != "" {
		detail, err := p.details.Details(ctx, candidate.ID)
		if err != nil {
			zap.L().Warn("detail fetch failed",
				zap.String("place_id", candidate.ID),
				zap.String("name", candidate.Name),
				zap.Error(err),
			)
			prospect.EnrichmentError = fmt.Sprintf("failed to get place details: %v", err)
		} else {
			overlayDetail(&prospect.Business, detail)
		}
	} else {
		prospect.EnrichmentError = "missing place id for detail lookup"
	}

	// Fallback industry guesses, computed before enrichment so they are
	// available on every exit path.
	tagIndustry := MapTagsToIndustry(prospect.Types)
	keywordIndustry := IdentifyIndustry(prospect.Name, prospect.Types)

	providerIndustry, outcome := p.enrichOrganization(ctx, &prospect)

	if prospect.EnrichmentSkippedReason != "" || outcome == "error" {
		prospect.Industry = ResolveIndustry("", keywordIndustry, tagIndustry)
	} else {
		prospect.Industry = ResolveIndustry(providerIndustry, keywordIndustry, tagIndustry)
	}

	if outcome == "error" {
		prospect.MicroTicketScore = 0
	} else {
		prospect.MicroTicketScore = MicroTicketScore(&prospect)
	}

	metrics.EnrichmentOutcomes.WithLabelValues(outcome).Inc()
	return prospect
}

// enrichOrganization runs the organization lookup and relevance check,
// mapping accepted fields onto the prospect. It returns the provider's
// industry guess (empty unless accepted) and the outcome label.
func (p *Pipeline) enrichOrganization(ctx context.Context, prospect *model.EnrichedProspect) (industry, outcome string) {
	if prospect.Website == "" {
		if prospect.EnrichmentError != "" {
			prospect.EnrichmentSkippedReason = fmt.Sprintf("skipped due to detail lookup error: %s", prospect.EnrichmentError)
		} else {
			prospect.EnrichmentSkippedReason = "missing website for enrichment"
		}
		return "", "skipped"
	}
	if prospect.EnrichmentError != "" {
		prospect.EnrichmentSkippedReason = fmt.Sprintf("skipped due to detail lookup error: %s", prospect.EnrichmentError)
		return "", "skipped"
	}

	domain := Hostname(prospect.Website)
	if domain == "" {
		prospect.EnrichmentSkippedReason = fmt.Sprintf("could not derive hostname from website %q", prospect.Website)
		return "", "skipped"
	}

	resp, err := p.orgs.SearchByDomain(ctx, domain)
	if err != nil {
		zap.L().Warn("organization lookup failed",
			zap.String("domain", domain),
			zap.String("name", prospect.Name),
			zap.Error(err),
		)
		prospect.EnrichmentError = fmt.Sprintf("organization lookup failed: %v", err)
		return "", "error"
	}

	if len(resp.Organizations) == 0 {
		prospect.EnrichmentSkippedReason = fmt.Sprintf("no organization found for domain %s", domain)
		return "", "skipped"
	}

	org := &resp.Organizations[0]
	if reason := CheckRelevance(prospect.Website, prospect.Name, org); reason != "" {
		zap.L().Info("discarding irrelevant enrichment",
			zap.String("domain", domain),
			zap.String("org", org.Name),
			zap.String("reason", reason),
		)
		prospect.EnrichmentSkippedReason = reason
		return "", "rejected"
	}

	applyOrganization(prospect, org)
	return org.Industry, "enriched"
}

// overlayDetail copies non-empty detail fields onto the candidate. Detail
// data wins over summary data, but an absent detail field never erases the
// summary value.
func overlayDetail(b *model.Business, detail *places.Place) {
	if detail == nil {
		return
	}
	if detail.DisplayName.Text != "" {
		b.Name = detail.DisplayName.Text
	}
	if detail.FormattedAddress != "" {
		b.Address = detail.FormattedAddress
	}
	if phone := detailPhone(detail); phone != "" {
		b.Phone = phone
	}
	if detail.Rating != 0 {
		b.Rating = detail.Rating
	}
	if detail.WebsiteURI != "" {
		b.Website = detail.WebsiteURI
	}
	if len(detail.Types) > 0 {
		b.Types = detail.Types
	}
	if detail.GoogleMapsURI != "" {
		b.MapsURL = detail.GoogleMapsURI
	}
}

func detailPhone(detail *places.Place) string {
	if detail.NationalPhoneNumber != "" {
		return detail.NationalPhoneNumber
	}
	return detail.InternationalPhoneNumber
}

// applyOrganization maps accepted organization fields onto the prospect.
// Personnel are truncated to the first two entries for display.
func applyOrganization(prospect *model.EnrichedProspect, org *apollo.Organization) {
	prospect.EmployeeCount = org.EstimatedNumEmployees
	prospect.FoundedYear = org.FoundedYear
	prospect.Keywords = org.Keywords
	prospect.MarketCap = org.MarketCap
	prospect.EstimatedAnnualRevenue = org.AnnualRevenue

	if org.AnnualRevenueFormatted != "" {
		prospect.RevenueBand = org.AnnualRevenueFormatted
	} else {
		prospect.RevenueBand = org.RevenueRange
	}

	if org.WebsiteURL != "" {
		prospect.Website = org.WebsiteURL
	}

	switch {
	case len(org.People) > 0:
		people := org.People
		if len(people) > 2 {
			people = people[:2]
		}
		for _, person := range people {
			prospect.Contacts = append(prospect.Contacts, model.Contact{
				Name:  person.Name,
				Title: person.Title,
				Email: person.Email,
				Phone: person.Phone,
			})
		}
	case org.PrimaryPhone != nil:
		name := org.Name
		if name == "" {
			name = "Main Contact"
		}
		prospect.Contacts = []model.Contact{{
			Name:  name,
			Title: "General Contact",
			Phone: org.PrimaryPhone.BestNumber(),
		}}
	}
}
