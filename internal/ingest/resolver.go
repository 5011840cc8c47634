package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bezalele/BetOddsIngestor/internal/models"
)

// Resolver maps external names onto catalog rows, creating them on first
// sight. Resolved teams and providers are cached for the process lifetime;
// catalog rows are never mutated once created, so the cache cannot go stale.
type Resolver struct {
	sports    SportStore
	leagues   LeagueStore
	providers ProviderStore
	teams     TeamStore

	mu            sync.Mutex
	teamCache     map[string]*models.Team
	providerCache map[string]*models.OddsProvider
}

func NewResolver(sports SportStore, leagues LeagueStore, providers ProviderStore, teams TeamStore) *Resolver {
	return &Resolver{
		sports:        sports,
		leagues:       leagues,
		providers:     providers,
		teams:         teams,
		teamCache:     make(map[string]*models.Team),
		providerCache: make(map[string]*models.OddsProvider),
	}
}

// EnsureLeague resolves the sport and league rows, creating either on first
// need.
func (r *Resolver) EnsureLeague(ctx context.Context, sportName, sportCode, leagueName, leagueCode string) (*models.League, error) {
	sport, err := r.sports.FindOrCreate(ctx, sportName, sportCode)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure sport %s: %w", sportCode, err)
	}

	league, err := r.leagues.FindOrCreate(ctx, sport.ID, leagueName, leagueCode)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure league %s: %w", leagueCode, err)
	}

	return league, nil
}

// EnsureProvider resolves a bookmaker code to its provider row.
func (r *Resolver) EnsureProvider(ctx context.Context, code string) (*models.OddsProvider, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, Skip(fmt.Errorf("provider code is empty"))
	}

	r.mu.Lock()
	cached, ok := r.providerCache[code]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	provider, err := r.providers.FindOrCreate(ctx, code, code)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure provider %s: %w", code, err)
	}

	r.mu.Lock()
	r.providerCache[code] = provider
	r.mu.Unlock()

	return provider, nil
}

// ResolveTeam maps a raw provider team name to the league's team row.
// The name is trimmed, the abbreviation derived from it, and the store's
// (name or abbreviation) lookup collapses spelling variants onto one row.
// A blank name is a skip, not a failure.
func (r *Resolver) ResolveTeam(ctx context.Context, leagueID int, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Skip(ErrEmptyTeamName)
	}

	cacheKey := fmt.Sprintf("%d|%s", leagueID, name)

	r.mu.Lock()
	cached, ok := r.teamCache[cacheKey]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	abbreviation := models.TeamAbbreviation(name)
	team, err := r.teams.FindOrCreate(ctx, leagueID, name, abbreviation)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team %q: %w", name, err)
	}

	r.mu.Lock()
	r.teamCache[cacheKey] = team
	r.mu.Unlock()

	return team, nil
}
