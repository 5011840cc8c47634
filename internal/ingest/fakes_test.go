package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/clock"
	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
)

// In-memory stores with the same not-found and find-or-create semantics as
// the repositories. Counters track writes so tests can assert idempotence.

type fakeSports struct {
	rows   map[string]*models.Sport
	nextID int
}

func newFakeSports() *fakeSports { return &fakeSports{rows: map[string]*models.Sport{}} }

func (f *fakeSports) FindOrCreate(_ context.Context, name, code string) (*models.Sport, error) {
	if s, ok := f.rows[code]; ok {
		return s, nil
	}
	f.nextID++
	s := &models.Sport{ID: f.nextID, Name: name, Code: code}
	f.rows[code] = s
	return s, nil
}

type fakeLeagues struct {
	rows   map[string]*models.League
	nextID int
}

func newFakeLeagues() *fakeLeagues { return &fakeLeagues{rows: map[string]*models.League{}} }

func (f *fakeLeagues) FindOrCreate(_ context.Context, sportID int, name, code string) (*models.League, error) {
	key := fmt.Sprintf("%d|%s", sportID, code)
	if l, ok := f.rows[key]; ok {
		return l, nil
	}
	f.nextID++
	l := &models.League{ID: f.nextID, SportID: sportID, Name: name, Code: code}
	f.rows[key] = l
	return l, nil
}

type fakeProviders struct {
	rows    map[string]*models.OddsProvider
	nextID  int
	creates int
}

func newFakeProviders() *fakeProviders { return &fakeProviders{rows: map[string]*models.OddsProvider{}} }

func (f *fakeProviders) FindOrCreate(_ context.Context, name, code string) (*models.OddsProvider, error) {
	if p, ok := f.rows[code]; ok {
		return p, nil
	}
	f.nextID++
	f.creates++
	p := &models.OddsProvider{ID: f.nextID, Name: name, Code: code, IsActive: true}
	f.rows[code] = p
	return p, nil
}

type fakeTeams struct {
	rows    []*models.Team
	nextID  int
	creates int
}

func (f *fakeTeams) FindOrCreate(_ context.Context, leagueID int, name, abbreviation string) (*models.Team, error) {
	for _, t := range f.rows {
		if t.LeagueID == leagueID && (t.Name == name || t.Abbreviation == abbreviation) {
			return t, nil
		}
	}
	f.nextID++
	f.creates++
	t := &models.Team{ID: f.nextID, LeagueID: leagueID, Name: name, Abbreviation: abbreviation, IsActive: true}
	f.rows = append(f.rows, t)
	return t, nil
}

type fakeGames struct {
	rows    map[string]*models.Game
	nextID  int
	creates int
	updates int
}

func newFakeGames() *fakeGames { return &fakeGames{rows: map[string]*models.Game{}} }

func (f *fakeGames) GetByExternalRef(_ context.Context, externalRef string) (*models.Game, error) {
	if g, ok := f.rows[externalRef]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGames) Create(_ context.Context, in models.GameUpsert) (*models.Game, error) {
	if g, ok := f.rows[in.ExternalRef]; ok {
		copied := *g
		return &copied, nil
	}
	f.nextID++
	f.creates++
	g := &models.Game{
		ID:           f.nextID,
		LeagueID:     in.LeagueID,
		Season:       in.Season,
		StartTimeUTC: in.StartTimeUTC,
		SlateDateUTC: in.SlateDateUTC,
		HomeTeamID:   in.HomeTeamID,
		AwayTeamID:   in.AwayTeamID,
		Status:       models.GameStatusScheduled,
		ExternalRef:  in.ExternalRef,
	}
	f.rows[in.ExternalRef] = g
	copied := *g
	return &copied, nil
}

func (f *fakeGames) UpdateChanged(_ context.Context, id int, changes models.GameChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	for _, g := range f.rows {
		if g.ID != id {
			continue
		}
		f.updates++
		if changes.Season != nil {
			g.Season = *changes.Season
		}
		if changes.StartTimeUTC != nil {
			g.StartTimeUTC = *changes.StartTimeUTC
		}
		if changes.SlateDateUTC != nil {
			g.SlateDateUTC = *changes.SlateDateUTC
		}
		if changes.HomeTeamID != nil {
			g.HomeTeamID = *changes.HomeTeamID
		}
		if changes.AwayTeamID != nil {
			g.AwayTeamID = *changes.AwayTeamID
		}
		if changes.Status != nil {
			g.Status = *changes.Status
		}
		return nil
	}
	return fmt.Errorf("game not found: id=%d", id)
}

type fakeMarkets struct {
	types    map[string]*models.MarketType
	markets  map[string]*models.Market
	outcomes map[string]*models.MarketOutcome
	nextID   int
}

func newFakeMarkets() *fakeMarkets {
	return &fakeMarkets{
		types:    map[string]*models.MarketType{},
		markets:  map[string]*models.Market{},
		outcomes: map[string]*models.MarketOutcome{},
	}
}

func (f *fakeMarkets) FindOrCreateType(_ context.Context, code, description string) (*models.MarketType, error) {
	if mt, ok := f.types[code]; ok {
		return mt, nil
	}
	f.nextID++
	mt := &models.MarketType{ID: f.nextID, Code: code, Description: description}
	f.types[code] = mt
	return mt, nil
}

func (f *fakeMarkets) FindOrCreateMarket(_ context.Context, gameID, marketTypeID int, period string) (*models.Market, error) {
	key := fmt.Sprintf("%d|%d|%s", gameID, marketTypeID, period)
	if m, ok := f.markets[key]; ok {
		return m, nil
	}
	f.nextID++
	m := &models.Market{ID: f.nextID, GameID: gameID, MarketTypeID: marketTypeID, Period: period, IsActive: true}
	f.markets[key] = m
	return m, nil
}

func (f *fakeMarkets) FindOrCreateOutcome(_ context.Context, marketID int, outcomeCode, description string, sortOrder int) (*models.MarketOutcome, error) {
	key := fmt.Sprintf("%d|%s", marketID, outcomeCode)
	if o, ok := f.outcomes[key]; ok {
		return o, nil
	}
	f.nextID++
	o := &models.MarketOutcome{ID: f.nextID, MarketID: marketID, OutcomeCode: outcomeCode, Description: description, SortOrder: sortOrder}
	f.outcomes[key] = o
	return o, nil
}

type fakeSnapshots struct {
	rows []*models.OddsSnapshot
}

func (f *fakeSnapshots) Create(_ context.Context, snap *models.OddsSnapshot) error {
	copied := *snap
	copied.ID = len(f.rows) + 1
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeSnapshots) forOutcome(outcomeID int) []*models.OddsSnapshot {
	var out []*models.OddsSnapshot
	for _, s := range f.rows {
		if s.MarketOutcomeID == outcomeID {
			out = append(out, s)
		}
	}
	return out
}

type fakeResults struct {
	rows    map[string]models.GameResultUpsert
	upserts int
}

func newFakeResults() *fakeResults { return &fakeResults{rows: map[string]models.GameResultUpsert{}} }

func (f *fakeResults) UpsertGameResult(_ context.Context, res models.GameResultUpsert) error {
	key := fmt.Sprintf("%s|%s|%s|%s|%s",
		res.LeagueCode, res.Season, res.SlateDateUTC.Format("2006-01-02"),
		res.HomeTeamName, res.AwayTeamName)
	f.rows[key] = res
	f.upserts++
	return nil
}

// Feed stubs

type stubSchedule struct {
	games []feed.ScheduleGame
	err   error
}

func (s stubSchedule) GetSchedule(context.Context, time.Time, time.Time) ([]feed.ScheduleGame, error) {
	return s.games, s.err
}

type stubOdds struct {
	records []feed.OddsRecord
	err     error
}

func (s stubOdds) GetTodayOdds(context.Context) ([]feed.OddsRecord, error) {
	return s.records, s.err
}

type stubScores struct {
	games []feed.ScoreGame
	err   error
}

func (s stubScores) GetScores(context.Context, time.Time, time.Time) ([]feed.ScoreGame, error) {
	return s.games, s.err
}

// fixture wires a pipeline over the fakes with a fixed wall clock.
type fixture struct {
	sports    *fakeSports
	leagues   *fakeLeagues
	providers *fakeProviders
	teams     *fakeTeams
	games     *fakeGames
	markets   *fakeMarkets
	snapshots *fakeSnapshots
	results   *fakeResults
	pipeline  *Pipeline
}

var fixedNow = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

func newFixture(schedule feed.ScheduleFeed, odds feed.OddsFeed, scores feed.ResultsFeed, history feed.ResultsFeed) *fixture {
	f := &fixture{
		sports:    newFakeSports(),
		leagues:   newFakeLeagues(),
		providers: newFakeProviders(),
		teams:     &fakeTeams{},
		games:     newFakeGames(),
		markets:   newFakeMarkets(),
		snapshots: &fakeSnapshots{},
		results:   newFakeResults(),
	}

	f.pipeline = New(Deps{
		Clock:     clock.MustResolve(),
		Resolver:  NewResolver(f.sports, f.leagues, f.providers, f.teams),
		Games:     f.games,
		Markets:   f.markets,
		Snapshots: f.snapshots,
		Results:   f.results,
		Schedule:  schedule,
		Odds:      odds,
		Scores:    scores,
		History:   history,
		Settings: Settings{
			SportName:         "Basketball",
			SportCode:         "BASKETBALL",
			LeagueName:        "NBA",
			LeagueCode:        "NBA",
			ScheduleBackDays:  1,
			ScheduleAheadDays: 7,
			ResultsBackDays:   3,
			ResultsAheadDays:  1,
			HistoryBackDays:   30,
			HistoryAheadDays:  1,
		},
		Now: func() time.Time { return fixedNow },
	})

	return f
}
