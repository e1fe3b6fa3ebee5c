package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placesync/internal/models/request_models"
	"placesync/pkg/utils"
)

func TestHTTPCrawlClient_CrawlPlaceData(t *testing.T) {
	var got request_models.CrawlPlaceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/crawl/place", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "done",
			"data": {
				"images": ["https://img.example.com/a.jpg"],
				"reviews": ["Good"],
				"business_hours": {"monday": {"open": "09:00", "close": "18:00", "description": "09-18", "is_operating": true}},
				"last_order_minutes": 30,
				"ai_summary": ["Popular brunch spot"],
				"social_links": {"instagram": "https://instagram.com/x"},
				"parking_available": true,
				"pet_friendly": false
			}
		}`))
	}))
	defer srv.Close()

	client := NewHTTPCrawlClient(srv.URL, 5*time.Second)
	resp, err := client.CrawlPlaceData(context.Background(), "Seoul Mapo-gu Cafe", "Cafe")

	require.NoError(t, err)
	assert.Equal(t, request_models.CrawlPlaceRequest{SearchQuery: "Seoul Mapo-gu Cafe", PlaceName: "Cafe"}, got)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, []string{"https://img.example.com/a.jpg"}, resp.Data.Images)
	assert.Equal(t, "09:00", resp.Data.BusinessHours["monday"].Open)
	assert.True(t, resp.Data.BusinessHours["monday"].IsOperating)
	require.NotNil(t, resp.Data.LastOrderMinutes)
	assert.Equal(t, 30, *resp.Data.LastOrderMinutes)
	require.NotNil(t, resp.Data.ParkingAvailable)
	assert.True(t, *resp.Data.ParkingAvailable)
	require.NotNil(t, resp.Data.PetFriendly)
	assert.False(t, *resp.Data.PetFriendly)
	assert.Equal(t, "https://instagram.com/x", resp.Data.SocialLinks["instagram"])
}

func TestHTTPCrawlClient_FetchPlaceMenus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crawl/menus", r.URL.Path)
		var body request_models.CrawlTargetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bakery", body.Name)
		assert.Equal(t, "Seoul Jung-gu 1 Euljiro", body.Address)
		_, _ = w.Write([]byte(`{"menus":[{"name":"Bagel","price":"4,000","image_url":"https://img/b.jpg","is_popular":true}]}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPCrawlClient(srv.URL, time.Second).FetchPlaceMenus(context.Background(), "Bakery", "Seoul Jung-gu 1 Euljiro")

	require.NoError(t, err)
	require.Len(t, resp.Menus, 1)
	assert.Equal(t, "Bagel", resp.Menus[0].Name)
	assert.True(t, resp.Menus[0].IsPopular)
}

func TestHTTPCrawlClient_FetchPlaceImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crawl/images", r.URL.Path)
		_, _ = w.Write([]byte(`{"images":["https://img/1.jpg","https://img/2.jpg"]}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPCrawlClient(srv.URL, time.Second).FetchPlaceImages(context.Background(), "Bakery", "")

	require.NoError(t, err)
	assert.Len(t, resp.Images, 2)
}

func TestHTTPCrawlClient_BadStatusIsCrawlerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "browser pool exhausted", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPCrawlClient(srv.URL, time.Second).CrawlPlaceData(context.Background(), "q", "n")

	assert.ErrorIs(t, err, utils.ErrCrawlerUnavailable)
	assert.Contains(t, err.Error(), "browser pool exhausted")
}

func TestHTTPCrawlClient_UnreachableIsCrawlerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPCrawlClient(url, time.Second).FetchPlaceImages(context.Background(), "n", "a")

	assert.ErrorIs(t, err, utils.ErrCrawlerUnavailable)
}

func TestHTTPCrawlClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": tru`))
	}))
	defer srv.Close()

	_, err := NewHTTPCrawlClient(srv.URL, time.Second).CrawlPlaceData(context.Background(), "q", "n")

	require.Error(t, err)
	assert.NotErrorIs(t, err, utils.ErrCrawlerUnavailable)
}
