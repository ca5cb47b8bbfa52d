package http

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/keboola"
	"github.com/keboola/waii-integration/pkg/service"
)

var _ service.CatalogAPI = &catalogAPI{}

type catalogAPI struct {
	fetcher keboola.Fetcher
	log     zerolog.Logger
}

func (a *catalogAPI) ListTables(ctx context.Context) ([]service.TableRef, error) {
	const op errs.Op = "catalogAPI.ListTables"

	buckets, err := a.fetcher.ListBuckets(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	var refs []service.TableRef

	for _, bucket := range buckets {
		tables, err := a.fetcher.ListTables(ctx, bucket.ID)
		if err != nil {
			return nil, errs.E(op, err, errs.Parameter("bucket_id"))
		}

		for _, table := range tables {
			refs = append(refs, service.TableRef{
				ID:          table.ID,
				Name:        table.Name,
				DisplayName: table.DisplayName,
				BucketID:    bucket.ID,
			})
		}
	}

	return refs, nil
}

func (a *catalogAPI) GetTableDetail(ctx context.Context, ref service.TableRef) (*service.TableMetadata, error) {
	const op errs.Op = "catalogAPI.GetTableDetail"

	table, err := a.fetcher.GetTableDetail(ctx, ref.ID)
	if err != nil {
		return nil, errs.E(op, err, errs.Parameter("table_id"))
	}

	name := table.Name
	if v := table.MetadataValue(keboola.MetadataKeyName); v != "" {
		name = v
	}

	displayName := table.DisplayName
	if displayName == "" {
		displayName = name
	}

	stage := ""
	if table.Bucket != nil {
		stage = table.Bucket.Stage
	}

	rows := table.RowsCount
	if rows < 0 {
		a.log.Warn().Str("table_id", table.ID).Int64("rows_count", rows).Msg("negative row count from catalog, coercing to zero")
		rows = 0
	}

	return &service.TableMetadata{
		ID:             table.ID,
		Name:           name,
		DisplayName:    displayName,
		Description:    table.MetadataValue(keboola.MetadataKeyDescription),
		BucketID:       ref.BucketID,
		BucketStage:    stage,
		RowsCount:      rows,
		Columns:        table.Columns,
		LastImportDate: parseCatalogTime(table.LastImportDate),
		LastChangeDate: parseCatalogTime(table.LastChangeDate),
		ComponentID:    table.MetadataValue(keboola.MetadataKeyCreatedByComponentID),
	}, nil
}

// parseCatalogTime parses the timestamp formats the Storage API is known
// to emit. Unparseable values are treated as absent.
func parseCatalogTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z0700"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	return nil
}

func NewCatalogAPI(fetcher keboola.Fetcher, log zerolog.Logger) *catalogAPI {
	return &catalogAPI{
		fetcher: fetcher,
		log:     log,
	}
}
