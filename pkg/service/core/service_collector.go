package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/service"
)

var _ service.CollectorService = &collectorService{}

type collectorService struct {
	catalog    service.CatalogAPI
	components service.ComponentResolver
	log        zerolog.Logger
}

// Collect lists the catalog tables, truncates to limit when limit is
// positive, and fetches detail for each remaining table in listing order.
// Tables that have disappeared between listing and detail fetch are
// skipped, as are tables whose detail fetch hits a transient condition.
// Rejected credentials abort the whole collection.
func (s *collectorService) Collect(ctx context.Context, limit int) ([]*service.TableMetadata, error) {
	const op errs.Op = "collectorService.Collect"

	refs, err := s.catalog.ListTables(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	if limit > 0 && len(refs) > limit {
		s.log.Info().Int("limit", limit).Int("total", len(refs)).Msg("truncating table listing")
		refs = refs[:limit]
	}

	tables := make([]*service.TableMetadata, 0, len(refs))

	for _, ref := range refs {
		table, err := s.catalog.GetTableDetail(ctx, ref)
		if err != nil {
			if errs.KindIs(errs.Unauthenticated, err) {
				return nil, errs.E(op, err)
			}

			if errs.KindIs(errs.NotExist, err) || errs.KindIs(errs.Transient, err) {
				s.log.Warn().Err(err).Str("table_id", ref.ID).Msg("skipping table")
				continue
			}

			return nil, errs.E(op, err)
		}

		if table.ComponentID != "" {
			description, err := s.components.Describe(ctx, table.ComponentID)
			if err != nil {
				if errs.KindIs(errs.Unauthenticated, err) {
					return nil, errs.E(op, err)
				}

				s.log.Warn().Err(err).Str("component_id", table.ComponentID).Msg("component description lookup failed")
			}

			table.ComponentDescription = description
		}

		tables = append(tables, table)
	}

	s.log.Info().Int("tables", len(tables)).Msg("collected table metadata")

	return tables, nil
}

func NewCollectorService(catalog service.CatalogAPI, components service.ComponentResolver, log zerolog.Logger) *collectorService {
	return &collectorService{
		catalog:    catalog,
		components: components,
		log:        log,
	}
}
