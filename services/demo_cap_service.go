package services

import (
	"context"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// League-wide roster shape used by the demo cap model
const (
	demoRosterSize      = 53
	demoExpiringPerTeam = 11
)

// DemoCapService models the league-wide contract rollover with fixed
// roster arithmetic instead of real contract data
type DemoCapService struct {
	logger *logging.Logger
}

// NewDemoCapService creates the service
func NewDemoCapService() *DemoCapService {
	return &DemoCapService{logger: logging.WithPrefix("demo_cap")}
}

// IncrementAllContracts advances every contract one year
func (s *DemoCapService) IncrementAllContracts(ctx context.Context, newSeason int) (*models.ContractRollover, error) {
	total := demoRosterSize * models.TeamCount
	expired := demoExpiringPerTeam * models.TeamCount
	rollover := &models.ContractRollover{
		Total:   total,
		Active:  total - expired,
		Expired: expired,
	}
	s.logger.Infof("Rolled %d contracts into %d (%d expired)", total, newSeason, expired)
	return rollover, nil
}
