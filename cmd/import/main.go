package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/domain/matcher"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/config"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
)

func main() {
	var (
		configFile string
		csvPath    string
	)
	flag.StringVar(&configFile, "config", "", "Configuration file path")
	flag.StringVar(&csvPath, "file", "", "Statement CSV file to import")
	flag.Parse()

	if csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file statement.csv [-config config.yaml]")
		os.Exit(2)
	}

	cfg := config.LoadOrEnv(configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "import")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Open(csvPath)
	if err != nil {
		logger.Error("failed to open statement", "path", csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	importer := service.NewImportService(store, matcher.NewDefault(), logger)

	summary, err := importer.ImportCSV(f)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d transactions\n", summary.Parsed)
	fmt.Printf("  benefits recorded: %d\n", summary.BenefitsImported)
	fmt.Printf("  duplicates skipped: %d\n", summary.BenefitsSkipped)
	fmt.Printf("  offers updated: %d\n", summary.OffersUpdated)
	for _, m := range summary.Matches {
		fmt.Printf("  %s %s %d cents (%s)\n", m.BenefitName, m.PeriodKey, m.AmountCents, m.Notes)
	}
}
