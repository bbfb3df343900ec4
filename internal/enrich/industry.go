// Package enrich turns place-search candidates into scored, enriched
// prospects: detail overlay, organization enrichment with a relevance guard,
// industry reconciliation, and the micro-ticket fit score.
package enrich

import "strings"

// GeneralBusiness is the fallback industry when no guess matches.
const GeneralBusiness = "General Business"

// Canonical industry labels. The keyword table, equipment catalog, and the
// high-fit set all key off these exact strings.
const (
	IndustryMedical      = "Medical & Healthcare"
	IndustryRestaurants  = "Restaurants & Food Service"
	IndustryRetail       = "Retail & E-commerce"
	IndustryFitness      = "Fitness & Wellness"
	IndustryProfessional = "Professional Services"
	IndustryTechnology   = "Technology"
	IndustryEducation    = "Education"
	IndustryConstruction = "Construction & Contractors"
	IndustryAutoRepair   = "Auto Repair & Service"
	IndustryMarketing    = "Marketing & Advertising"
	IndustrySalonsSpas   = "Salons & Spas"
	IndustryHotels       = "Hotels & Hospitality"
)

// industryKeywords maps each canonical industry to the lowercase keywords
// that identify it in business names and category tags. Order matters: the
// first matching industry wins, so more specific buckets come first.
var industryKeywords = []struct {
	Industry string
	Keywords []string
}{
	{IndustryMedical, []string{"medical", "healthcare", "clinic", "hospital", "dental", "veterinary", "health"}},
	{IndustryRestaurants, []string{"restaurant", "cafe", "bakery", "diner", "kitchen", "food service", "pizzeria"}},
	{IndustryRetail, []string{"store", "shop", "retail", "boutique", "market", "mall", "e-commerce"}},
	{IndustryFitness, []string{"gym", "fitness", "yoga", "pilates", "massage", "spa", "salon", "wellness"}},
	{IndustryProfessional, []string{"consulting", "law", "accounting", "insurance", "real estate", "agency"}},
	{IndustryTechnology, []string{"software", "tech", "computer", "digital", "data", "saas", "information technology & services", "internet", "computer software"}},
	{IndustryEducation, []string{"school", "university", "college", "academy", "training", "education"}},
	{IndustryConstruction, []string{"construction", "contractor", "builder", "plumbing", "electrical", "hvac", "roofing"}},
	{IndustryAutoRepair, []string{"auto repair", "mechanic", "automotive", "car service", "body shop"}},
	{IndustryMarketing, []string{"marketing & advertising", "digital marketing", "advertising", "sem"}},
}

// highFitIndustries score an extra point: industries with dense small-dollar
// equipment demand.
var highFitIndustries = map[string]bool{
	IndustryMedical:      true,
	IndustryAutoRepair:   true,
	IndustryConstruction: true,
	IndustryTechnology:   true,
	IndustryRestaurants:  true,
}

// MapTagsToIndustry maps the candidate's primary category tag to a canonical
// industry. Only the first tag is considered; underscores are treated as
// spaces ("auto_repair" matches "auto repair").
func MapTagsToIndustry(tags []string) string {
	if len(tags) == 0 {
		return GeneralBusiness
	}
	primary := strings.ToLower(strings.ReplaceAll(tags[0], "_", " "))

	for _, row := range industryKeywords {
		for _, kw := range row.Keywords {
			if strings.Contains(primary, kw) {
				return row.Industry
			}
		}
	}

	// Coarser fallbacks for tags the keyword table misses.
	switch {
	case strings.Contains(primary, "restaurant"), strings.Contains(primary, "food"), strings.Contains(primary, "cafe"):
		return IndustryRestaurants
	case strings.Contains(primary, "store"), strings.Contains(primary, "retail"), strings.Contains(primary, "shop"):
		return IndustryRetail
	case strings.Contains(primary, "health"), strings.Contains(primary, "clinic"), strings.Contains(primary, "doctor"), strings.Contains(primary, "dental"):
		return IndustryMedical
	case strings.Contains(primary, "information technology"), strings.Contains(primary, "computer software"), strings.Contains(primary, "internet"):
		return IndustryTechnology
	case strings.Contains(primary, "marketing"), strings.Contains(primary, "advertising"):
		return IndustryMarketing
	}
	return GeneralBusiness
}

// IdentifyIndustry matches the business name and all category tags against
// the keyword table. First matching industry wins.
func IdentifyIndustry(businessName string, tags []string) string {
	name := strings.ToLower(businessName)
	tagBlob := strings.ToLower(strings.ReplaceAll(strings.Join(tags, " "), "_", " "))

	for _, row := range industryKeywords {
		for _, kw := range row.Keywords {
			if strings.Contains(name, kw) || strings.Contains(tagBlob, kw) {
				return row.Industry
			}
		}
	}
	return GeneralBusiness
}

// ResolveIndustry reconciles the three independent industry guesses into one
// value by ordered precedence: provider > keyword match > tag match >
// "General Business". Empty strings and the literal fallback both count as
// absent.
func ResolveIndustry(provider, keyword, tag string) string {
	for _, guess := range []string{provider, keyword, tag} {
		if guess != "" && guess != GeneralBusiness {
			return guess
		}
	}
	return GeneralBusiness
}

// IsHighFit reports whether the industry is in the fixed high-fit set.
func IsHighFit(industry string) bool {
	return highFitIndustries[industry]
}
