// Site Estimator: weight and cost estimates for steel site structures.
//
// A desktop application for pricing tents, sheds and canopies: steel
// members are weighed from their dimensions, labour and fabric are added,
// and the combined estimate is exported to Excel or a PDF summary.
//
// Build:
//   go build -o site-estimator ./cmd/site-estimator
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o site-estimator.exe ./cmd/site-estimator
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"github.com/piwi3910/SiteEstimator/internal/logging"
	"github.com/piwi3910/SiteEstimator/internal/project"
	"github.com/piwi3910/SiteEstimator/internal/store"
	"github.com/piwi3910/SiteEstimator/internal/ui"
)

func main() {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	estimates, err := store.New(cfg, log)
	if err != nil {
		log.Fatal("failed to open estimate store", zap.Error(err))
	}
	defer estimates.Close()

	application := app.NewWithID("com.piwi3910.siteestimator")
	window := application.NewWindow("Site Estimator")

	appUI := ui.NewApp(application, window, cfg, estimates, log)
	appUI.ApplyTheme()
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()

	log.Info("started", zap.String("store", cfg.StoreDriver), zap.String("save_dir", cfg.SaveDir))
	window.ShowAndRun()
}
