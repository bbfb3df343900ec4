// Package export renders enriched prospect lists as downloadable files.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/commcap/prospector/internal/model"
)

// columns is the fixed export column order.
var columns = []string{
	"Business Name", "Address", "Phone", "Website", "Rating",
	"Employee Count", "Industry", "Micro Ticket Score",
	"Contact Name", "Contact Title", "Contact Email", "Contact Phone",
}

// CSV renders prospects as CSV text. Every field is wrapped in double
// quotes with embedded quotes doubled, matching the download format the
// frontend has always produced, so encoding/csv's minimal-quoting
// writer is not used here.
func CSV(prospects []model.EnrichedProspect) string {
	var b strings.Builder
	writeRow(&b, columns)
	for i := range prospects {
		writeRow(&b, fieldValues(&prospects[i]))
	}
	return b.String()
}

// Filename builds the download filename for a search.
func Filename(city, industry string, date time.Time) string {
	return fmt.Sprintf("%s_%s_enriched_businesses_%s.csv",
		sanitize(city), sanitize(industry), date.Format("2006-01-02"))
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func fieldValues(p *model.EnrichedProspect) []string {
	contact, _ := p.PrimaryContact()

	rating := "N/A"
	if p.Rating != 0 {
		rating = strconv.FormatFloat(p.Rating, 'f', -1, 64)
	}
	employees := "N/A"
	if p.EmployeeCount != 0 {
		employees = strconv.Itoa(p.EmployeeCount)
	}

	return []string{
		p.Name,
		orNA(p.Address),
		orNA(p.Phone),
		orNA(p.Website),
		rating,
		employees,
		orNA(p.Industry),
		strconv.Itoa(p.MicroTicketScore),
		orNA(contact.Name),
		orNA(contact.Title),
		orNA(contact.Email),
		orNA(contact.Phone),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func sanitize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
