package enrich

import (
	"strings"

	"github.com/commcap/prospector/internal/model"
)

const maxScore = 10

// MicroTicketScore estimates fit for small-dollar equipment-financing deals
// on a 0..10 scale. A prospect whose enrichment was skipped or rejected
// always scores 0. Sub-scores:
//
//	employees:  >=20 -> 3, >=10 -> 2, >=5 -> 1
//	market cap: contains "B" -> 3, contains "M" -> 2; when market-cap text
//	            is present it supersedes the revenue tiers entirely
//	revenue:    >=2M -> 3, >=750K -> 2, >=250K -> 1
//	contacts:   any -> 2, first has email -> +1, first has phone -> +1
//	industry:   high-fit set -> 1
//
// The total is capped at 10.
func MicroTicketScore(p *model.EnrichedProspect) int {
	if p.EnrichmentSkippedReason != "" {
		return 0
	}

	score := 0

	switch {
	case p.EmployeeCount >= 20:
		score += 3
	case p.EmployeeCount >= 10:
		score += 2
	case p.EmployeeCount >= 5:
		score += 1
	}

	if p.MarketCap != "" {
		if strings.Contains(p.MarketCap, "B") {
			score += 3
		} else if strings.Contains(p.MarketCap, "M") {
			score += 2
		}
	} else {
		switch {
		case p.EstimatedAnnualRevenue >= 2_000_000:
			score += 3
		case p.EstimatedAnnualRevenue >= 750_000:
			score += 2
		case p.EstimatedAnnualRevenue >= 250_000:
			score += 1
		}
	}

	if len(p.Contacts) > 0 {
		score += 2
		if p.Contacts[0].Email != "" {
			score++
		}
		if p.Contacts[0].Phone != "" {
			score++
		}
	}

	if IsHighFit(p.Industry) {
		score++
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}
