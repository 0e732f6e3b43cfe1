package services

import (
	"context"
	"fmt"

	"nfl-dynasty-go/interfaces"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// DraftClassSize is the prospect pool generated each rollover
const DraftClassSize = 300

// SeasonTransitionService performs the league-wide bookkeeping of a year
// rollover: synchronize the year, advance every contract, and prepare the
// next draft class. Invoked from the OFFSEASON -> PRESEASON handler.
type SeasonTransitionService struct {
	yearSync *SeasonYearSynchronizer
	cap      interfaces.CapService
	draft    interfaces.DraftService
	logger   *logging.Logger
}

// NewSeasonTransitionService creates the service
func NewSeasonTransitionService(yearSync *SeasonYearSynchronizer, cap interfaces.CapService, draft interfaces.DraftService) *SeasonTransitionService {
	return &SeasonTransitionService{
		yearSync: yearSync,
		cap:      cap,
		draft:    draft,
		logger:   logging.WithPrefix("season_transition"),
	}
}

// ExecuteYearRollover moves the league into newYear. The year write is
// durable before contracts and the draft class touch it.
func (s *SeasonTransitionService) ExecuteYearRollover(ctx context.Context, newYear int) (*models.YearTransitionResult, error) {
	if err := s.yearSync.SynchronizeYear(ctx, newYear, "season rollover"); err != nil {
		return nil, err
	}

	contracts, err := s.cap.IncrementAllContracts(ctx, newYear)
	if err != nil {
		return nil, fmt.Errorf("contract rollover failed for %d: %w", newYear, err)
	}
	s.logger.Infof("Contracts rolled to %d: %d active, %d expired",
		newYear, contracts.Active, contracts.Expired)

	class, err := s.draft.PrepareClass(ctx, newYear, DraftClassSize)
	if err != nil {
		return nil, fmt.Errorf("draft class generation failed for %d: %w", newYear, err)
	}
	s.logger.Infof("Draft class %s ready: %d prospects in %dms",
		class.ID, class.TotalPlayers, class.ElapsedMS)

	return &models.YearTransitionResult{
		NewYear:    newYear,
		Contracts:  contracts,
		DraftClass: class,
	}, nil
}
