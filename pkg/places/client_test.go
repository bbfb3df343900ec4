package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.websiteUri")

		var body textSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Restaurants & Food Service in Miami", body.TextQuery)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TextSearchResponse{
			Places: []Place{
				{
					ID:                  "ChIJ-joes",
					DisplayName:         DisplayName{Text: "Joe's Pizza"},
					FormattedAddress:    "100 Ocean Dr, Miami, FL 33139",
					NationalPhoneNumber: "(305) 555-0134",
					Rating:              4.6,
					Types:               []string{"restaurant", "food"},
					WebsiteURI:          "https://joespizza.com",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "Restaurants & Food Service in Miami")

	require.NoError(t, err)
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "ChIJ-joes", resp.Places[0].ID)
	assert.Equal(t, "Joe's Pizza", resp.Places[0].DisplayName.Text)
	assert.Equal(t, "https://joespizza.com", resp.Places[0].WebsiteURI)
	assert.InDelta(t, 4.6, resp.Places[0].Rating, 0.001)
}

func TestTextSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TextSearchResponse{Places: nil})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "Nonexistent in Nowhere")

	require.NoError(t, err)
	assert.Empty(t, resp.Places)
}

func TestTextSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	resp, err := client.TextSearch(context.Background(), "test query")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "403")
}

func TestDetails_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/places/ChIJ-joes", r.URL.Path)
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "googleMapsUri")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Place{
			ID:                  "ChIJ-joes",
			DisplayName:         DisplayName{Text: "Joe's Pizza"},
			NationalPhoneNumber: "(305) 555-0134",
			WebsiteURI:          "https://joespizza.com",
			GoogleMapsURI:       "https://maps.google.com/?cid=123",
			Types:               []string{"restaurant"},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := client.Details(context.Background(), "ChIJ-joes")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", place.DisplayName.Text)
	assert.Equal(t, "https://maps.google.com/?cid=123", place.GoogleMapsURI)
}

func TestDetails_EmptyID(t *testing.T) {
	client := NewClient("test-key")
	place, err := client.Details(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, place)
}

func TestDetails_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := client.Details(ctx, "ChIJ-x")

	assert.Error(t, err)
	assert.Nil(t, place)
}
