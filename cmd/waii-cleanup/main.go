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
	"github.com/keboola/waii-integration/pkg/service/core"
	httpapi "github.com/keboola/waii-integration/pkg/service/core/api/http"
	"github.com/keboola/waii-integration/pkg/service/core/storage"
	"github.com/keboola/waii-integration/pkg/waii"
)

var (
	file = flag.String("file", "", "run file with statement ids to delete")
	ids  = flag.StringSlice("ids", nil, "explicit statement ids to delete")
	list = flag.Bool("list", false, "list available run files and exit")
	dir  = flag.String("dir", "", "directory for statement id files, overrides the configured default")
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	waiiFetcher := waii.New(cfg.Waii.APIURL, cfg.Waii.APIKey, cfg.Waii.Connection, httpClient)

	statementStorage := storage.NewFileStatementStorage(
		cfg.Output.StatementIDsDir,
		cfg.Output.StatementsDir,
		cfg.Keboola.ProjectName,
		log.With().Str("subsystem", "storage").Logger(),
	)

	if *list {
		files, err := statementStorage.ListRunFiles(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("listing run files")
		}

		for _, f := range files {
			log.Info().Str("file", f).Msg("run file")
		}

		return
	}

	if *file == "" && len(*ids) == 0 {
		log.Fatal().Msg("either --file or --ids is required")
	}

	contexts := core.NewSemanticContextService(
		httpapi.NewSemanticContextAPI(waiiFetcher),
		statementStorage,
		cfg.Keboola.ProjectName,
		log.With().Str("subsystem", "semantic_context").Logger(),
	)

	switch {
	case *file != "":
		res, err := contexts.DeleteStatementsFromFile(ctx, *file)
		if err != nil {
			log.Fatal().Err(err).Msg("deleting statements from file")
		}

		log.Info().Int("deleted", res.Deleted).Int("attempted", res.Summary.Attempted).Int("skipped", res.Summary.Skipped).Msg("cleanup completed")
	default:
		res, err := contexts.DeleteStatements(ctx, *ids)
		if err != nil {
			log.Fatal().Err(err).Msg("deleting statements")
		}

		log.Info().Int("deleted", res.Deleted).Int("attempted", res.Summary.Attempted).Int("skipped", res.Summary.Skipped).Msg("cleanup completed")
	}
}
