package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// DemoDraftService fabricates draft classes instantly; the real service
// runs prospect generation
type DemoDraftService struct {
	logger *logging.Logger
}

// NewDemoDraftService creates the service
func NewDemoDraftService() *DemoDraftService {
	return &DemoDraftService{logger: logging.WithPrefix("demo_draft")}
}

// PrepareClass generates a class of size prospects for the season
func (s *DemoDraftService) PrepareClass(ctx context.Context, season, size int) (*models.DraftClass, error) {
	start := time.Now()
	class := &models.DraftClass{
		ID:           uuid.NewString(),
		Season:       season,
		TotalPlayers: size,
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	s.logger.Infof("Prepared draft class %s for %d: %d prospects", class.ID, season, size)
	return class, nil
}
