package enrich

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/commcap/prospector/pkg/apollo"
)

// CheckRelevance guards against the enrichment provider returning an
// unrelated "closest guess" organization for the queried domain. It returns
// a non-empty skip reason when the organization should be discarded:
//
//   - the provider fell back to its generic "Google" record for a domain
//     that is not Google's, or
//   - neither the organization's primary domain nor its website hostname
//     matches the queried hostname, and the business name does not equal the
//     organization name (case-insensitive).
//
// This is a heuristic, not a proof of relatedness.
func CheckRelevance(queriedWebsite, businessName string, org *apollo.Organization) string {
	inputHost := Hostname(queriedWebsite)
	orgName := strings.ToLower(org.Name)
	primaryDomain := strings.ToLower(org.PrimaryDomain)
	websiteHost := Hostname(org.WebsiteURL)

	if orgName == "google" && !strings.Contains(inputHost, "google") {
		return fmt.Sprintf("provider returned generic 'Google' data for non-Google domain %s", queriedWebsite)
	}

	domainMatches := inputHost == primaryDomain ||
		inputHost == websiteHost ||
		(primaryDomain != "" && strings.Contains(inputHost, primaryDomain)) ||
		(websiteHost != "" && strings.Contains(inputHost, websiteHost))

	if !domainMatches && !strings.EqualFold(businessName, org.Name) {
		matched := primaryDomain
		if matched == "" {
			matched = websiteHost
		}
		return fmt.Sprintf("provider returned data for %q (domain: %s) unrelated to queried domain %q", org.Name, matched, inputHost)
	}

	return ""
}

// Hostname extracts the lowercase hostname from a website value, stripping
// any leading "www.". Bare domains without a scheme are accepted.
func Hostname(website string) string {
	s := strings.TrimSpace(website)
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		// Fall back to treating the raw value as a host with optional path.
		host := strings.TrimPrefix(strings.TrimSpace(website), "www.")
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		return strings.ToLower(host)
	}

	return strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
}
