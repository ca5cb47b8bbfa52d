package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/keboola/waii-integration/pkg/config"
	"github.com/keboola/waii-integration/pkg/keboola"
	"github.com/keboola/waii-integration/pkg/service/core"
	apiclients "github.com/keboola/waii-integration/pkg/service/core/api"
	"github.com/keboola/waii-integration/pkg/service/core/storage"
	"github.com/keboola/waii-integration/pkg/syncers/semanticcontext"
	"github.com/keboola/waii-integration/pkg/waii"
)

var (
	limit = flag.Int("limit", 0, "maximum number of tables to process, 0 processes all tables")
	dir   = flag.String("dir", "", "directory for statement id files, overrides the configured default")
)

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.NewEnvLoader().Load(config.NewDefaultEnvBinder())
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	if *dir != "" {
		cfg.Output.StatementIDsDir = *dir
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatal().Err(err).Msg("validating config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing log level")
	}
	log = log.Level(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	keboolaFetcher := keboola.New(cfg.Keboola.APIBaseURL(), cfg.Keboola.APIToken, httpClient)
	waiiFetcher := waii.New(cfg.Waii.APIURL, cfg.Waii.APIKey, cfg.Waii.Connection, httpClient)

	apiClients := apiclients.NewClients(keboolaFetcher, waiiFetcher, log.With().Str("subsystem", "api_clients").Logger())

	statementStorage := storage.NewFileStatementStorage(
		cfg.Output.StatementIDsDir,
		cfg.Output.StatementsDir,
		cfg.Keboola.ProjectName,
		log.With().Str("subsystem", "storage").Logger(),
	)

	services := core.NewServices(
		core.NewCollectorService(
			apiClients.CatalogAPI,
			apiClients.ComponentResolver,
			log.With().Str("subsystem", "collector").Logger(),
		),
		core.NewSemanticContextService(
			apiClients.SemanticContextAPI,
			statementStorage,
			cfg.Keboola.ProjectName,
			log.With().Str("subsystem", "semantic_context").Logger(),
		),
	)

	syncer := semanticcontext.New(
		services.CollectorService,
		services.SemanticContextService,
		log.With().Str("subsystem", "syncer").Logger(),
	)

	log.Info().Str("project", cfg.Keboola.ProjectName).Int("limit", *limit).Msg("starting sync run")

	result, err := syncer.RunOnce(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("sync run failed")
	}

	log.Info().
		Int("attempted", result.Summary.Attempted).
		Int("succeeded", result.Summary.Succeeded).
		Int("skipped", result.Summary.Skipped).
		Msg("sync run completed")
}
