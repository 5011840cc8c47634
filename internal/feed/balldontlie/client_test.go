package balldontlie

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return New(Options{BaseURL: serverURL, APIKey: "test-key"})
}

func TestGetScores_Pagination(t *testing.T) {
	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		switch page {
		case "1":
			fmt.Fprint(w, `{
				"data": [
					{"id": 1, "date": "2024-01-10T00:00:00.000Z", "season": 2023, "status": "Final",
					 "home_team_score": 110, "visitor_team_score": 102,
					 "home_team": {"full_name": "Boston Celtics"},
					 "visitor_team": {"full_name": "Los Angeles Lakers"}}
				],
				"meta": {"next_page": 2}
			}`)
		case "2":
			fmt.Fprint(w, `{
				"data": [
					{"id": 2, "date": "2024-01-11T00:00:00.000Z", "season": 2023, "status": "Final",
					 "home_team_score": 99, "visitor_team_score": 104,
					 "home_team": {"full_name": "Denver Nuggets"},
					 "visitor_team": {"full_name": "Phoenix Suns"}}
				],
				"meta": {"next_page": null}
			}`)
		default:
			t.Fatalf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	games, err := newTestClient(server.URL).GetScores(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pages, "Should follow meta.next_page until exhausted")
	require.Len(t, games, 2)

	assert.Equal(t, "1", games[0].ExternalGameID)
	assert.Equal(t, "NBA", games[0].LeagueCode)
	assert.Equal(t, "2023", games[0].Season, "Season comes from the payload, not the date")
	assert.Equal(t, "Final", games[0].Status)
	require.NotNil(t, games[0].HomeScore)
	assert.Equal(t, 110, *games[0].HomeScore)
	assert.Equal(t, 102, *games[0].AwayScore)
	assert.Equal(t, "Boston Celtics", games[0].HomeTeamName)
	assert.Equal(t, "Los Angeles Lakers", games[0].AwayTeamName)
}

func TestGetScores_SkipsScorelessGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": [
				{"id": 1, "date": "2024-01-10T00:00:00.000Z", "season": 2023, "status": "Final",
				 "home_team_score": 110, "visitor_team_score": 102,
				 "home_team": {"full_name": "Boston Celtics"},
				 "visitor_team": {"full_name": "Los Angeles Lakers"}},
				{"id": 2, "date": "2024-01-20T00:00:00.000Z", "season": 2023, "status": "Scheduled",
				 "home_team_score": 0, "visitor_team_score": 0,
				 "home_team": {"full_name": "Miami Heat"},
				 "visitor_team": {"full_name": "Chicago Bulls"}}
			],
			"meta": {"next_page": null}
		}`)
	}))
	defer server.Close()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	games, err := newTestClient(server.URL).GetScores(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, games, 1, "A 0-0 game is indistinguishable from unplayed and is skipped")
	assert.Equal(t, "1", games[0].ExternalGameID)
}

func TestGetScores_WindowFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": [
				{"id": 1, "date": "2023-12-30T00:00:00.000Z", "season": 2023, "status": "Final",
				 "home_team_score": 100, "visitor_team_score": 90,
				 "home_team": {"full_name": "Boston Celtics"},
				 "visitor_team": {"full_name": "Los Angeles Lakers"}},
				{"id": 2, "date": "2024-01-10", "season": 2023, "status": "Final",
				 "home_team_score": 105, "visitor_team_score": 99,
				 "home_team": {"full_name": "Denver Nuggets"},
				 "visitor_team": {"full_name": "Phoenix Suns"}}
			],
			"meta": {"next_page": null}
		}`)
	}))
	defer server.Close()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	games, err := newTestClient(server.URL).GetScores(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, games, 1, "Games before the window are dropped even when the API returns them")
	assert.Equal(t, "2", games[0].ExternalGameID, "The bare-date form should parse")
}

func TestGetScores_TransportFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	games, err := newTestClient(server.URL).GetScores(context.Background(),
		time.Now().Add(-720*time.Hour), time.Now())
	require.NoError(t, err)
	assert.Nil(t, games)
}
