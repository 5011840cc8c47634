package theoddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoresPayload = `[
  {
    "id": "e1",
    "commence_time": "2024-01-14T00:30:00Z",
    "completed": true,
    "home_team": "Boston Celtics",
    "away_team": "Los Angeles Lakers",
    "scores": [
      {"name": "boston celtics", "score": "112"},
      {"name": "Los Angeles Lakers", "score": "105"}
    ]
  },
  {
    "id": "e2",
    "commence_time": "2024-01-14T02:00:00Z",
    "completed": false,
    "home_team": "Denver Nuggets",
    "away_team": "Phoenix Suns",
    "scores": [
      {"name": "Denver Nuggets", "score": "58"},
      {"name": "Phoenix Suns", "score": "61"}
    ]
  },
  {
    "id": "e3",
    "commence_time": "2024-01-14T03:00:00Z",
    "completed": false,
    "home_team": "Miami Heat",
    "away_team": "Chicago Bulls",
    "scores": [
      {"name": "Miami Heat", "score": "12"}
    ]
  },
  {
    "id": "e4",
    "commence_time": "2024-01-14T03:30:00Z",
    "completed": false,
    "home_team": "Utah Jazz",
    "away_team": "Dallas Mavericks",
    "scores": null
  }
]`

func TestGetScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("daysFrom"))
		w.Write([]byte(scoresPayload))
	}))
	defer server.Close()

	from := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	games, err := newTestClient(server.URL).GetScores(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, games, 2, "Events missing a score for either side are dropped")

	final := games[0]
	assert.Equal(t, "e1", final.ExternalGameID)
	assert.Equal(t, "Final", final.Status)
	require.NotNil(t, final.HomeScore)
	require.NotNil(t, final.AwayScore)
	assert.Equal(t, 112, *final.HomeScore, "Score names match case-insensitively")
	assert.Equal(t, 105, *final.AwayScore)

	inProgress := games[1]
	assert.Equal(t, "e2", inProgress.ExternalGameID)
	assert.Equal(t, "Completed", inProgress.Status, "An uncompleted game with both scores is not Final")
}

func TestGetScores_WindowFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scoresPayload))
	}))
	defer server.Close()

	from := time.Date(2024, 1, 14, 1, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	games, err := newTestClient(server.URL).GetScores(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, games, 1, "e1 commences before the window")
	assert.Equal(t, "e2", games[0].ExternalGameID)
}

func TestGetScores_TransportFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	games, err := newTestClient(server.URL).GetScores(context.Background(),
		time.Now().Add(-72*time.Hour), time.Now())
	require.NoError(t, err)
	assert.Nil(t, games)
}
