package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rabbishuki/rambam-sub001/internal/db"
	"github.com/rabbishuki/rambam-sub001/internal/hebcal"
	"github.com/rabbishuki/rambam-sub001/internal/mcptools"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
	"github.com/rabbishuki/rambam-sub001/internal/schedule"
	"github.com/rabbishuki/rambam-sub001/internal/sefaria"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

func main() {
	dbPath := os.Getenv("RAMBAM_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("rambam-mcp: finding home directory: %v", err)
		}
		dbPath = filepath.Join(home, ".rambam", "rambam.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("rambam-mcp: opening database: %v", err)
	}
	defer database.Close()

	settingsRepo := repository.NewSQLiteSettingsRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)

	// Stdout carries the MCP stream; telemetry must stay off it.
	sefariaClient := sefaria.NewClient(sefaria.LoadConfig(), sefaria.NoopObserver{})
	hebcalClient := hebcal.NewClient(hebcal.LoadConfig())
	cache := schedule.NewCache(schedule.NewAnnotatedSource(sefariaClient, hebcalClient), scheduleRepo, nil)
	store := service.NewLedgerStore(completionRepo)

	study := service.NewStudyService(store, settingsRepo, cache, hebcalClient)
	stats := service.NewStatsService(completionRepo, settingsRepo, cache, study.Today)

	mcpServer := server.NewMCPServer(
		"rambam-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)
	mcptools.RegisterReadTools(mcpServer, study, stats)
	mcptools.RegisterWriteTools(mcpServer, study)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("rambam-mcp: %v", err)
	}
}
