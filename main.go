package main

import (
	"context"
	"os"

	"nfl-dynasty-go/config"
	"nfl-dynasty-go/database"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
	"nfl-dynasty-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Configuration error: %v", err)
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Output:      os.Stdout,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	}
	if cfg.Logging.File != "" {
		if err := logging.ConfigureFile(logCfg, cfg.Logging.File); err != nil {
			logging.Fatalf("Log file %s unusable: %v", cfg.Logging.File, err)
		}
	} else {
		logging.Configure(logCfg)
	}
	cfg.LogConfiguration()

	db, err := database.NewSQLiteConnection(database.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logging.Fatalf("Database test failed: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		logging.Fatalf("Migrations failed: %v", err)
	}

	ctx := context.Background()
	controller, err := services.NewSeasonCycleController(ctx, db,
		cfg.Dynasty.ID, cfg.Dynasty.Name,
		services.ControllerOptions{
			StartSeason: cfg.Dynasty.StartSeason,
			Settings:    cfg.SimulationSettings(),
			Seed:        cfg.Simulation.Seed,
		},
		services.Collaborators{})
	if err != nil {
		logging.Fatalf("Controller initialization failed: %v", err)
	}

	logging.Infof("Dynasty %s ready: season %d, %s, %s",
		cfg.Dynasty.ID, controller.SeasonYear(), controller.CurrentPhase(), controller.CurrentDate())

	week, err := controller.AdvanceWeek(ctx, func(day *models.AdvanceDayResult) error {
		logging.Infof("%s", day.Message)
		return nil
	})
	if err != nil {
		logging.Fatalf("Advance failed: %v", err)
	}
	if week.PhaseTransition != nil {
		logging.Infof("Entered %s", week.PhaseTransition.ToPhase)
	}
	logging.Infof("Week complete: %s", week.Message)
}
