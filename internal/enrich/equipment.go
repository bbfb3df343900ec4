package enrich

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed equipment.yaml
var equipmentYAML []byte

// EquipmentSuggestion is one ranked equipment recommendation for an industry.
type EquipmentSuggestion struct {
	Equipment string  `yaml:"equipment" json:"equipment"`
	Budget    string  `yaml:"budget" json:"estimatedBudget"`
	DealSize  float64 `yaml:"deal_size" json:"potentialDealSize"`
	Reasoning string  `yaml:"reasoning" json:"reasoning"`
}

var equipmentCatalog = mustLoadCatalog()

func mustLoadCatalog() map[string][]EquipmentSuggestion {
	var catalog map[string][]EquipmentSuggestion
	if err := yaml.Unmarshal(equipmentYAML, &catalog); err != nil {
		panic(fmt.Sprintf("enrich: bad embedded equipment catalog: %v", err))
	}
	return catalog
}

// EquipmentFor returns the full ranked recommendation list for an industry.
// Lookup: exact label match first, else the first industry whose keyword
// list has a keyword contained in the query, else the General Business
// bucket.
func EquipmentFor(industry string) []EquipmentSuggestion {
	return equipmentCatalog[equipmentKey(industry)]
}

// Suggestions returns the top three recommendations formatted as
// "<equipment> (Est: <budget>)". Deterministic for a given catalog.
func Suggestions(industry string) []string {
	entries := EquipmentFor(industry)
	if len(entries) > 3 {
		entries = entries[:3]
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (Est: %s)", e.Equipment, e.Budget))
	}
	return out
}

func equipmentKey(industry string) string {
	query := strings.ToLower(industry)

	for key := range equipmentCatalog {
		if strings.ToLower(key) == query {
			return key
		}
	}

	for _, row := range industryKeywords {
		if _, ok := equipmentCatalog[row.Industry]; !ok {
			continue
		}
		for _, kw := range row.Keywords {
			if strings.Contains(query, kw) {
				return row.Industry
			}
		}
	}

	return GeneralBusiness
}
