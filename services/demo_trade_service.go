package services

import (
	"context"
	"fmt"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// TradeDeadlineWeek is the last regular-season week trades are legal
const TradeDeadlineWeek = 9

// DemoTradeWindowValidator enforces the in-season trade window: trades
// are legal from free agency through the regular-season deadline week.
type DemoTradeWindowValidator struct{}

// NewDemoTradeWindowValidator creates the validator
func NewDemoTradeWindowValidator() *DemoTradeWindowValidator {
	return &DemoTradeWindowValidator{}
}

// IsTradeAllowed decides whether trades are legal on a date
func (v *DemoTradeWindowValidator) IsTradeAllowed(date models.Date, phase models.SeasonPhase, week int) (bool, string) {
	switch phase {
	case models.PhasePreseason, models.PhaseOffseason:
		return true, ""
	case models.PhaseRegularSeason:
		if week <= TradeDeadlineWeek {
			return true, ""
		}
		return false, fmt.Sprintf("trade deadline passed (week %d of %d)", week, TradeDeadlineWeek)
	default:
		return false, "trades are closed during the playoffs"
	}
}

// DemoTradeAI never proposes a trade; real deployments inject an AI
// that evaluates rosters daily
type DemoTradeAI struct {
	logger *logging.Logger
}

// NewDemoTradeAI creates the AI
func NewDemoTradeAI() *DemoTradeAI {
	return &DemoTradeAI{logger: logging.WithPrefix("demo_trade_ai")}
}

// EvaluateDailyForAllTeams returns no trades
func (ai *DemoTradeAI) EvaluateDailyForAllTeams(ctx context.Context, phase models.SeasonPhase, week int) ([]models.Trade, error) {
	return nil, nil
}
