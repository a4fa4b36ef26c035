package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/config"
	"github.com/trippal/admin-console/internal/controller"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/internal/observability"
	"github.com/trippal/admin-console/internal/session"
	"github.com/trippal/admin-console/internal/storage"
	"github.com/trippal/admin-console/internal/ui"
	"github.com/trippal/admin-console/internal/worker"
)

func main() {
	var (
		envFlag     = pflag.String("env", "", "environment name (overrides APP_ENV)")
		apiFlag     = pflag.String("api", "", "API base URL (overrides the environment default)")
		configFlag  = pflag.String("config", "", "path to a YAML config file")
		logFlag     = pflag.String("log-output", "", "log file path (default: stderr)")
		versionFlag = pflag.Bool("version", false, "print version and exit")
	)
	pflag.Parse()

	// Flags override the environment before config.Load reads it.
	if *envFlag != "" {
		os.Setenv("APP_ENV", *envFlag)
	}
	if *apiFlag != "" {
		os.Setenv("API_BASE_URL", *apiFlag)
	}
	if *configFlag != "" {
		os.Setenv("CONFIG_FILE", *configFlag)
	}
	if *logFlag != "" {
		os.Setenv("LOG_PATH", *logFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *versionFlag {
		fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		return
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("console exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher()
	tokens := storage.NewTokenStore(cfg.Storage.TokenPath)
	client := api.NewClient(cfg.API, tokens, logger).WithMetrics(observability.NewMetrics())

	sessionStore := session.NewStore(session.Dependencies{
		API:        client,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	tickets := controller.NewTicketList(client, cfg.Lists.TicketPageSize, cfg.App.Debounce(), dispatcher, logger)
	materials := controller.NewMaterialList(client, cfg.Lists.MaterialPageSize, cfg.App.Debounce(), dispatcher, logger)
	destinations := controller.NewDestinations(client, logger)
	dashboard := controller.NewDashboard(controller.DashboardDependencies{
		API:        client,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	mutator := controller.NewMutator(controller.MutationDependencies{
		API:     client,
		Session: sessionStore,
		Tickets: tickets,
		Logger:  logger,
	})

	worker.StartSummaryWorker(ctx, cfg.App.SummaryRefreshInterval(), dashboard, logger)

	model := ui.New(ui.Dependencies{
		Config:       cfg,
		API:          client,
		Session:      sessionStore,
		Tickets:      tickets,
		Materials:    materials,
		Destinations: destinations,
		Dashboard:    dashboard,
		Mutator:      mutator,
		Logger:       logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Controller state changes made off the UI goroutine (debounced
	// loads, the periodic summary worker) re-render through the bus.
	for _, eventType := range []events.EventType{
		events.EventSessionChanged,
		events.EventListUpdated,
		events.EventSummaryUpdated,
	} {
		dispatcher.Subscribe(eventType, func(event events.Event) {
			program.Send(ui.BusEvent(event))
		})
	}

	logger.Info("console starting",
		zap.String("env", cfg.App.Env),
		zap.String("api", cfg.API.BaseURL),
	)

	_, err := program.Run()
	return err
}
