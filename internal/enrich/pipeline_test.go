package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commcap/prospector/internal/model"
	"github.com/commcap/prospector/pkg/apollo"
	"github.com/commcap/prospector/pkg/places"
)

type stubDetailer struct {
	byID  map[string]*places.Place
	err   error
	calls int
}

func (s *stubDetailer) Details(_ context.Context, placeID string) (*places.Place, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.byID[placeID]; ok {
		return d, nil
	}
	return &places.Place{ID: placeID}, nil
}

type stubOrgClient struct {
	byDomain map[string]*apollo.SearchResponse
	err      error
	calls    int
}

func (s *stubOrgClient) SearchByDomain(_ context.Context, domain string) (*apollo.SearchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if r, ok := s.byDomain[domain]; ok {
		return r, nil
	}
	return &apollo.SearchResponse{}, nil
}

func TestEnrichAll_MissingWebsiteSkipsAndZeroes(t *testing.T) {
	p := NewPipeline(&stubDetailer{}, &stubOrgClient{})

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "p1", Name: "No Web Diner", Types: []string{"restaurant"}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].MicroTicketScore)
	assert.NotEmpty(t, got[0].EnrichmentSkippedReason)
	assert.Equal(t, IndustryRestaurants, got[0].Industry)
}

func TestEnrichAll_JoesPizzaScenario(t *testing.T) {
	details := &stubDetailer{byID: map[string]*places.Place{
		"joes-1": {
			ID:                  "joes-1",
			DisplayName:         places.DisplayName{Text: "Joe's Pizza"},
			NationalPhoneNumber: "(305) 555-0134",
			WebsiteURI:          "https://joespizza.com",
			Types:               []string{"restaurant", "food"},
		},
	}}
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"joespizza.com": {Organizations: []apollo.Organization{{
			Name:                  "Joe's Pizza LLC",
			PrimaryDomain:         "joespizza.com",
			EstimatedNumEmployees: 12,
		}}},
	}}
	p := NewPipeline(details, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "joes-1", Name: "Joe's Pizza", Address: "100 Ocean Dr, Miami, FL", Types: []string{"restaurant"}},
	})

	require.Len(t, got, 1)
	prospect := got[0]
	assert.Empty(t, prospect.EnrichmentSkippedReason)
	assert.Empty(t, prospect.EnrichmentError)
	assert.Equal(t, 12, prospect.EmployeeCount)
	// Org record carries no industry, so the keyword guess wins.
	assert.Equal(t, IndustryRestaurants, prospect.Industry)
	// >= 2 from the 10+ employee tier (plus the high-fit industry point).
	assert.GreaterOrEqual(t, prospect.MicroTicketScore, 2)
}

func TestEnrichAll_ProviderIndustryWins(t *testing.T) {
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"acmeclinic.com": {Organizations: []apollo.Organization{{
			Name:          "Acme Clinic",
			PrimaryDomain: "acmeclinic.com",
			Industry:      "Hospital & Health Care",
		}}},
	}}
	p := NewPipeline(&stubDetailer{}, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "a1", Name: "Acme Clinic", Website: "https://acmeclinic.com", Types: []string{"doctor"}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Hospital & Health Care", got[0].Industry)
}

func TestEnrichAll_IrrelevantOrgRejected(t *testing.T) {
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"acme.com": {Organizations: []apollo.Organization{{
			Name:          "Google",
			PrimaryDomain: "google.com",
		}}},
	}}
	p := NewPipeline(&stubDetailer{}, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "a1", Name: "Acme Corp", Website: "https://acme.com"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].MicroTicketScore)
	assert.NotEmpty(t, got[0].EnrichmentSkippedReason)
	assert.Zero(t, got[0].EmployeeCount)
}

func TestEnrichAll_DetailOverlayFillsNotErases(t *testing.T) {
	details := &stubDetailer{byID: map[string]*places.Place{
		"d1": {
			ID:         "d1",
			WebsiteURI: "https://detailed.example",
			// No phone or address in the detail record.
		},
	}}
	p := NewPipeline(details, &stubOrgClient{})

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "d1", Name: "Keeper", Address: "1 Main St", Phone: "(111) 222-3333", Rating: 4.2},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Keeper", got[0].Name)
	assert.Equal(t, "1 Main St", got[0].Address)
	assert.Equal(t, "(111) 222-3333", got[0].Phone)
	assert.InDelta(t, 4.2, got[0].Rating, 0.001)
	assert.Equal(t, "https://detailed.example", got[0].Website)
}

func TestEnrichAll_DetailFailureSkipsEnrichment(t *testing.T) {
	details := &stubDetailer{err: eris.New("quota exceeded")}
	orgs := &stubOrgClient{}
	p := NewPipeline(details, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "d1", Name: "Acme", Website: "https://acme.com"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 0, orgs.calls)
	assert.Equal(t, 0, got[0].MicroTicketScore)
	assert.NotEmpty(t, got[0].EnrichmentError)
	assert.Contains(t, got[0].EnrichmentSkippedReason, "detail lookup error")
}

func TestEnrichAll_OrgLookupErrorIsolatedPerCandidate(t *testing.T) {
	orgs := &stubOrgClient{err: eris.New("upstream 500")}
	p := NewPipeline(&stubDetailer{}, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "a", Name: "First Gym", Website: "https://firstgym.com", Types: []string{"gym"}},
		{ID: "b", Name: "Second Gym", Website: "https://secondgym.com", Types: []string{"gym"}},
	})

	require.Len(t, got, 2)
	for _, prospect := range got {
		assert.Equal(t, 0, prospect.MicroTicketScore)
		assert.Contains(t, prospect.EnrichmentError, "organization lookup failed")
		assert.Equal(t, IndustryFitness, prospect.Industry)
	}
}

func TestEnrichAll_PreservesInputOrder(t *testing.T) {
	p := NewPipeline(&stubDetailer{}, &stubOrgClient{})

	in := []model.Business{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Bravo"},
		{ID: "3", Name: "Charlie"},
	}
	got := p.EnrichAll(context.Background(), in)

	require.Len(t, got, 3)
	for i := range in {
		assert.Equal(t, in[i].Name, got[i].Name)
	}
}

func TestEnrichAll_Idempotent(t *testing.T) {
	details := &stubDetailer{byID: map[string]*places.Place{
		"x": {ID: "x", WebsiteURI: "https://stable.example", Types: []string{"store"}},
	}}
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"stable.example": {Organizations: []apollo.Organization{{
			Name:                  "Stable Example",
			PrimaryDomain:         "stable.example",
			EstimatedNumEmployees: 8,
			PrimaryPhone:          &apollo.Phone{Number: "555-1000"},
		}}},
	}}
	p := NewPipeline(details, orgs)
	in := []model.Business{{ID: "x", Name: "Stable Example"}}

	first := p.EnrichAll(context.Background(), in)
	second := p.EnrichAll(context.Background(), in)

	assert.Equal(t, first, second)
}

func TestEnrichAll_PersonnelTruncatedToTwo(t *testing.T) {
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"crew.example": {Organizations: []apollo.Organization{{
			Name:          "Crew Example",
			PrimaryDomain: "crew.example",
			People: []apollo.Person{
				{Name: "A", Title: "Owner", Email: "a@crew.example"},
				{Name: "B", Title: "Manager"},
				{Name: "C", Title: "Clerk"},
			},
		}}},
	}}
	p := NewPipeline(&stubDetailer{}, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "c1", Name: "Crew Example", Website: "https://crew.example"},
	})

	require.Len(t, got, 1)
	require.Len(t, got[0].Contacts, 2)
	assert.Equal(t, "A", got[0].Contacts[0].Name)
	assert.Equal(t, "B", got[0].Contacts[1].Name)
}

func TestEnrichAll_PrimaryPhoneFallbackContact(t *testing.T) {
	orgs := &stubOrgClient{byDomain: map[string]*apollo.SearchResponse{
		"solo.example": {Organizations: []apollo.Organization{{
			Name:          "Solo Example",
			PrimaryDomain: "solo.example",
			PrimaryPhone:  &apollo.Phone{Number: "555-2000", SanitizedNumber: "+15552000"},
		}}},
	}}
	p := NewPipeline(&stubDetailer{}, orgs)

	got := p.EnrichAll(context.Background(), []model.Business{
		{ID: "s1", Name: "Solo Example", Website: "https://solo.example"},
	})

	require.Len(t, got, 1)
	require.Len(t, got[0].Contacts, 1)
	assert.Equal(t, "General Contact", got[0].Contacts[0].Title)
	assert.Equal(t, "+15552000", got[0].Contacts[0].Phone)
}
