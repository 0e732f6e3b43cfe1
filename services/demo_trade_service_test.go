package services

import (
	"testing"

	"nfl-dynasty-go/models"
)

func TestTradeWindow(t *testing.T) {
	validator := NewDemoTradeWindowValidator()
	date := models.NewDate(2024, 10, 1)

	tests := []struct {
		phase models.SeasonPhase
		week  int
		want  bool
	}{
		{models.PhasePreseason, 0, true},
		{models.PhaseOffseason, 0, true},
		{models.PhaseRegularSeason, 1, true},
		{models.PhaseRegularSeason, TradeDeadlineWeek, true},
		{models.PhaseRegularSeason, TradeDeadlineWeek + 1, false},
		{models.PhasePlayoffs, 18, false},
	}
	for _, tt := range tests {
		allowed, reason := validator.IsTradeAllowed(date, tt.phase, tt.week)
		if allowed != tt.want {
			t.Errorf("%s week %d: allowed = %v", tt.phase, tt.week, allowed)
		}
		if !allowed && reason == "" {
			t.Errorf("%s week %d: closed window without a reason", tt.phase, tt.week)
		}
	}
}
