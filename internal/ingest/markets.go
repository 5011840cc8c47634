package ingest

import (
	"context"
	"fmt"

	"github.com/bezalele/BetOddsIngestor/internal/models"
)

// moneylineOutcomes holds the two sides of a game's full-game moneyline
// market after scaffolding.
type moneylineOutcomes struct {
	Home *models.MarketOutcome
	Away *models.MarketOutcome
}

// ensureMoneylineMarket scaffolds the full-game moneyline market for a game:
// the market type, the market row, and both outcome rows. Every step is a
// find-or-create, so repeated odds passes land on the same rows.
func (p *Pipeline) ensureMoneylineMarket(ctx context.Context, gameID int) (*moneylineOutcomes, error) {
	marketType, err := p.markets.FindOrCreateType(ctx, models.MarketTypeMoneyline, "Moneyline")
	if err != nil {
		return nil, fmt.Errorf("failed to ensure market type: %w", err)
	}

	market, err := p.markets.FindOrCreateMarket(ctx, gameID, marketType.ID, models.MarketPeriodFull)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure market: %w", err)
	}

	home, err := p.markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeHome, "Home team wins", 1)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure home outcome: %w", err)
	}

	away, err := p.markets.FindOrCreateOutcome(ctx, market.ID, models.OutcomeAway, "Away team wins", 2)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure away outcome: %w", err)
	}

	return &moneylineOutcomes{Home: home, Away: away}, nil
}
