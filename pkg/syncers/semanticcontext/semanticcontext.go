// Package semanticcontext implements the single-pass synchronization of
// catalog table metadata into the Waii semantic context.
package semanticcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/service"
)

type Syncer struct {
	collector service.CollectorService
	contexts  service.SemanticContextService
	log       zerolog.Logger
}

func New(collector service.CollectorService, contexts service.SemanticContextService, log zerolog.Logger) *Syncer {
	return &Syncer{
		collector: collector,
		contexts:  contexts,
		log:       log,
	}
}

// RunOnce performs one collect, build, add pass. A limit of zero or less
// processes every table the catalog lists.
func (s *Syncer) RunOnce(ctx context.Context, limit int) (*service.AddResult, error) {
	const op errs.Op = "semanticcontext.RunOnce"

	s.log.Info().Msg("Syncing Keboola metadata to the Waii semantic context...")

	tables, err := s.collector.Collect(ctx, limit)
	if err != nil {
		return nil, errs.E(op, err)
	}

	if len(tables) == 0 {
		s.log.Info().Msg("No tables found in the catalog")

		return &service.AddResult{}, nil
	}

	statements := s.contexts.BuildStatements(tables)

	result, err := s.contexts.AddStatements(ctx, statements)
	if err != nil {
		return nil, errs.E(op, err)
	}

	s.log.Info().
		Int("attempted", result.Summary.Attempted).
		Int("succeeded", result.Summary.Succeeded).
		Int("skipped", result.Summary.Skipped).
		Str("file", result.FileName).
		Msg("done syncing semantic context")

	return result, nil
}
