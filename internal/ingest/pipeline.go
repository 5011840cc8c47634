package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/clock"
	"github.com/bezalele/BetOddsIngestor/internal/feed"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"
	"github.com/bezalele/BetOddsIngestor/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Settings carries the catalog identity and windowing the pipeline runs
// with. Window day counts are league-local calendar days either side of
// today.
type Settings struct {
	SportName  string
	SportCode  string
	LeagueName string
	LeagueCode string

	ScheduleBackDays  int
	ScheduleAheadDays int
	ResultsBackDays   int
	ResultsAheadDays  int
	HistoryBackDays   int
	HistoryAheadDays  int
}

// Pipeline runs the three ingestion passes against the configured feeds and
// stores. One Pipeline is safe for sequential reuse across runs; resolved
// catalog rows are cached between them.
type Pipeline struct {
	clk      *clock.Clock
	resolver *Resolver

	games     GameStore
	markets   MarketStore
	snapshots SnapshotStore
	results   ResultStore

	schedule feed.ScheduleFeed
	odds     feed.OddsFeed
	scores   feed.ResultsFeed
	history  feed.ResultsFeed

	settings Settings
	now      func() time.Time
}

// Deps lists everything a Pipeline needs. Now defaults to time.Now when nil.
type Deps struct {
	Clock    *clock.Clock
	Resolver *Resolver

	Games     GameStore
	Markets   MarketStore
	Snapshots SnapshotStore
	Results   ResultStore

	Schedule feed.ScheduleFeed
	Odds     feed.OddsFeed
	Scores   feed.ResultsFeed
	History  feed.ResultsFeed

	Settings Settings
	Now      func() time.Time
}

func New(d Deps) *Pipeline {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		clk:       d.Clock,
		resolver:  d.Resolver,
		games:     d.Games,
		markets:   d.Markets,
		snapshots: d.Snapshots,
		results:   d.Results,
		schedule:  d.Schedule,
		odds:      d.Odds,
		scores:    d.Scores,
		history:   d.History,
		settings:  d.Settings,
		now:       now,
	}
}

// Run executes one live ingestion cycle: schedule, then odds, then results,
// strictly in that order. A failed record never aborts a stage and a failed
// stage never aborts the run; only context cancellation stops it early.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.now()
	log.Info().Str("league", p.settings.LeagueCode).Msg("Starting ingestion run")

	league, err := p.resolver.EnsureLeague(ctx,
		p.settings.SportName, p.settings.SportCode,
		p.settings.LeagueName, p.settings.LeagueCode)
	if err != nil {
		metrics.RecordError("pipeline", "catalog")
		return fmt.Errorf("failed to resolve league: %w", err)
	}

	if err := p.runSchedule(ctx, league); err != nil {
		return err
	}
	if err := p.runOdds(ctx, league); err != nil {
		return err
	}
	if err := p.runResults(ctx, "results", p.scores,
		p.settings.ResultsBackDays, p.settings.ResultsAheadDays); err != nil {
		return err
	}

	metrics.RecordRun("live")
	log.Info().
		Dur("duration", p.now().Sub(start)).
		Msg("Ingestion run complete")
	return nil
}

// RunHistory executes one long-lookback results pass through the history
// feed. Same fault isolation as the live run.
func (p *Pipeline) RunHistory(ctx context.Context) error {
	start := p.now()
	log.Info().Str("league", p.settings.LeagueCode).Msg("Starting history backfill")

	if _, err := p.resolver.EnsureLeague(ctx,
		p.settings.SportName, p.settings.SportCode,
		p.settings.LeagueName, p.settings.LeagueCode); err != nil {
		metrics.RecordError("pipeline", "catalog")
		return fmt.Errorf("failed to resolve league: %w", err)
	}

	if err := p.runResults(ctx, "history", p.history,
		p.settings.HistoryBackDays, p.settings.HistoryAheadDays); err != nil {
		return err
	}

	metrics.RecordRun("history")
	log.Info().
		Dur("duration", p.now().Sub(start)).
		Msg("History backfill complete")
	return nil
}

func (p *Pipeline) runSchedule(ctx context.Context, league *models.League) error {
	stageStart := p.now()
	fromUTC, toUTC := p.clk.DayWindow(p.now(), p.settings.ScheduleBackDays, p.settings.ScheduleAheadDays)

	games, err := p.schedule.GetSchedule(ctx, fromUTC, toUTC)
	if err != nil {
		metrics.RecordError("schedule", "feed")
		log.Error().Err(err).Msg("Schedule fetch failed")
		return nil
	}
	if len(games) == 0 {
		log.Info().Msg("Schedule feed returned no games")
	}

	res, err := processBatch(ctx, "schedule", games,
		func(g feed.ScheduleGame) string { return g.ExternalGameID },
		func(ctx context.Context, g feed.ScheduleGame) error {
			_, err := p.ensureGame(ctx, league, g)
			return err
		})
	if err != nil {
		return err
	}

	p.logStage("schedule", res, stageStart)
	return nil
}

func (p *Pipeline) runOdds(ctx context.Context, league *models.League) error {
	stageStart := p.now()

	records, err := p.odds.GetTodayOdds(ctx)
	if err != nil {
		metrics.RecordError("odds", "feed")
		log.Error().Err(err).Msg("Odds fetch failed")
		return nil
	}
	if len(records) == 0 {
		log.Info().Msg("Odds feed returned no records")
	}

	res, err := processBatch(ctx, "odds", records,
		func(r feed.OddsRecord) string { return r.GameID + "/" + r.ProviderCode },
		func(ctx context.Context, r feed.OddsRecord) error {
			return p.ingestOddsRecord(ctx, league, r)
		})
	if err != nil {
		return err
	}

	p.logStage("odds", res, stageStart)
	return nil
}

func (p *Pipeline) runResults(ctx context.Context, stage string, f feed.ResultsFeed, backDays, aheadDays int) error {
	stageStart := p.now()
	fromUTC, toUTC := p.clk.DayWindow(p.now(), backDays, aheadDays)

	games, err := f.GetScores(ctx, fromUTC, toUTC)
	if err != nil {
		metrics.RecordError(stage, "feed")
		log.Error().Err(err).Msg("Scores fetch failed")
		return nil
	}
	if len(games) == 0 {
		log.Info().Str("stage", stage).Msg("Results feed returned no games")
	}

	res, err := processBatch(ctx, stage, games,
		func(g feed.ScoreGame) string { return g.ExternalGameID },
		func(ctx context.Context, g feed.ScoreGame) error {
			return p.ingestScore(ctx, g)
		})
	if err != nil {
		return err
	}

	p.logStage(stage, res, stageStart)
	return nil
}

// ensureGame reconciles one schedule record against the games table: resolve
// both teams, then create by external ref or write back just the fields that
// drifted since the last pull. A changed start time always carries the
// recomputed slate day with it.
func (p *Pipeline) ensureGame(ctx context.Context, league *models.League, g feed.ScheduleGame) (*models.Game, error) {
	externalRef := strings.TrimSpace(g.ExternalGameID)
	if externalRef == "" {
		return nil, Skip(fmt.Errorf("external game id is empty"))
	}

	home, err := p.resolver.ResolveTeam(ctx, league.ID, g.HomeTeamName)
	if err != nil {
		return nil, err
	}
	away, err := p.resolver.ResolveTeam(ctx, league.ID, g.AwayTeamName)
	if err != nil {
		return nil, err
	}

	startUTC := g.StartTimeUTC.UTC()
	slate := p.clk.SlateDay(startUTC)

	existing, err := p.games.GetByExternalRef(ctx, externalRef)
	if err == pgx.ErrNoRows {
		return p.games.Create(ctx, models.GameUpsert{
			LeagueID:     league.ID,
			ExternalRef:  externalRef,
			Season:       g.Season,
			StartTimeUTC: startUTC,
			SlateDateUTC: slate,
			HomeTeamID:   home.ID,
			AwayTeamID:   away.ID,
		})
	}
	if err != nil {
		return nil, err
	}

	var changes models.GameChanges
	if existing.Season != g.Season {
		changes.Season = &g.Season
	}
	if !existing.StartTimeUTC.Equal(startUTC) {
		changes.StartTimeUTC = &startUTC
		changes.SlateDateUTC = &slate
	}
	if existing.HomeTeamID != home.ID {
		changes.HomeTeamID = &home.ID
	}
	if existing.AwayTeamID != away.ID {
		changes.AwayTeamID = &away.ID
	}

	if changes.IsEmpty() {
		return existing, nil
	}
	if err := p.games.UpdateChanged(ctx, existing.ID, changes); err != nil {
		return nil, err
	}

	log.Debug().
		Int("game_id", existing.ID).
		Str("external_ref", externalRef).
		Msg("Game fields reconciled")
	return existing, nil
}

// ingestOddsRecord stores the moneyline prices of one (game, bookmaker)
// observation. The game is created on the spot when the odds board carries
// an event the schedule pass has not seen yet.
func (p *Pipeline) ingestOddsRecord(ctx context.Context, league *models.League, rec feed.OddsRecord) error {
	provider, err := p.resolver.EnsureProvider(ctx, rec.ProviderCode)
	if err != nil {
		return err
	}

	game, err := p.ensureGame(ctx, league, feed.ScheduleGame{
		ExternalGameID: rec.GameID,
		LeagueCode:     p.settings.LeagueCode,
		Season:         strconv.Itoa(rec.GameTimeUTC.UTC().Year()),
		HomeTeamName:   rec.HomeTeam,
		AwayTeamName:   rec.AwayTeam,
		StartTimeUTC:   rec.GameTimeUTC,
	})
	if err != nil {
		return err
	}

	outcomes, err := p.ensureMoneylineMarket(ctx, game.ID)
	if err != nil {
		return err
	}

	takenAt := p.now().UTC()
	if err := p.RecordIfPresent(ctx, outcomes.Home.ID, provider.ID, rec.HomeMoneyline, takenAt, provider.Code); err != nil {
		return err
	}
	if err := p.RecordIfPresent(ctx, outcomes.Away.ID, provider.ID, rec.AwayMoneyline, takenAt, provider.Code); err != nil {
		return err
	}

	return nil
}

// ingestScore hands one finished game to the result store. The store is
// keyed on (league, season, slate date, home name, away name), so repeats
// overwrite.
func (p *Pipeline) ingestScore(ctx context.Context, g feed.ScoreGame) error {
	if g.HomeScore == nil || g.AwayScore == nil {
		return Skip(fmt.Errorf("score missing for one or both sides"))
	}

	homeName := strings.TrimSpace(g.HomeTeamName)
	awayName := strings.TrimSpace(g.AwayTeamName)
	if homeName == "" || awayName == "" {
		return Skip(ErrEmptyTeamName)
	}

	return p.results.UpsertGameResult(ctx, models.GameResultUpsert{
		LeagueCode:   g.LeagueCode,
		Season:       g.Season,
		SlateDateUTC: p.clk.SlateDay(g.StartTimeUTC.UTC()),
		HomeTeamName: homeName,
		AwayTeamName: awayName,
		HomeScore:    *g.HomeScore,
		AwayScore:    *g.AwayScore,
		FinalStatus:  g.Status,
	})
}

func (p *Pipeline) logStage(stage string, res BatchResult, stageStart time.Time) {
	duration := p.now().Sub(stageStart)
	metrics.RecordStage(stage, res.Processed, res.Skipped, res.Failed, duration.Seconds())

	log.Info().
		Str("stage", stage).
		Int("processed", res.Processed).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", duration).
		Msg("Stage complete")
}
