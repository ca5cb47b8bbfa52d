package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/keboola"
	"github.com/keboola/waii-integration/pkg/service"
	httpapi "github.com/keboola/waii-integration/pkg/service/core/api/http"
)

type fakeFetcher struct {
	buckets    []keboola.Bucket
	tables     map[string][]keboola.Table
	details    map[string]*keboola.Table
	components map[string]*keboola.Component

	componentCalls int
}

func (f *fakeFetcher) ListBuckets(_ context.Context) ([]keboola.Bucket, error) {
	return f.buckets, nil
}

func (f *fakeFetcher) ListTables(_ context.Context, bucketID string) ([]keboola.Table, error) {
	tables, ok := f.tables[bucketID]
	if !ok {
		return nil, errs.E(errs.NotExist, errs.Str("bucket not found"))
	}

	return tables, nil
}

func (f *fakeFetcher) GetTableDetail(_ context.Context, tableID string) (*keboola.Table, error) {
	table, ok := f.details[tableID]
	if !ok {
		return nil, errs.E(errs.NotExist, errs.Str("table not found"))
	}

	return table, nil
}

func (f *fakeFetcher) GetComponent(_ context.Context, componentID string) (*keboola.Component, error) {
	f.componentCalls++

	component, ok := f.components[componentID]
	if !ok {
		return nil, errs.E(errs.NotExist, errs.Str("component not found"))
	}

	return component, nil
}

func TestCatalogAPI_ListTables(t *testing.T) {
	fetcher := &fakeFetcher{
		buckets: []keboola.Bucket{
			{ID: "in.c-crm", Stage: "in"},
			{ID: "out.c-reports", Stage: "out"},
		},
		tables: map[string][]keboola.Table{
			"in.c-crm": {
				{ID: "in.c-crm.accounts", Name: "accounts"},
				{ID: "in.c-crm.contacts", Name: "contacts"},
			},
			"out.c-reports": {
				{ID: "out.c-reports.monthly", Name: "monthly"},
			},
		},
	}

	api := httpapi.NewCatalogAPI(fetcher, zerolog.Nop())

	refs, err := api.ListTables(context.Background())
	require.NoError(t, err)

	// Listing order follows the catalog: buckets first, tables within.
	assert.Equal(t, []service.TableRef{
		{ID: "in.c-crm.accounts", Name: "accounts", BucketID: "in.c-crm"},
		{ID: "in.c-crm.contacts", Name: "contacts", BucketID: "in.c-crm"},
		{ID: "out.c-reports.monthly", Name: "monthly", BucketID: "out.c-reports"},
	}, refs)
}

func TestCatalogAPI_GetTableDetail(t *testing.T) {
	fetcher := &fakeFetcher{
		details: map[string]*keboola.Table{
			"in.c-crm.accounts": {
				ID:             "in.c-crm.accounts",
				Name:           "accounts",
				DisplayName:    "Accounts",
				RowsCount:      1234,
				Columns:        []string{"id", "name"},
				LastImportDate: "2024-05-01T10:30:00Z",
				LastChangeDate: "2024-05-02T08:15:00+0200",
				Bucket:         &keboola.Bucket{ID: "in.c-crm", Stage: "in"},
				Metadata: []keboola.MetadataEntry{
					{Key: keboola.MetadataKeyDescription, Value: "CRM accounts"},
					{Key: keboola.MetadataKeyCreatedByComponentID, Value: "keboola.ex-salesforce"},
				},
			},
		},
	}

	api := httpapi.NewCatalogAPI(fetcher, zerolog.Nop())

	got, err := api.GetTableDetail(context.Background(), service.TableRef{ID: "in.c-crm.accounts", BucketID: "in.c-crm"})
	require.NoError(t, err)

	assert.Equal(t, "in.c-crm.accounts", got.ID)
	assert.Equal(t, "Accounts", got.DisplayName)
	assert.Equal(t, "CRM accounts", got.Description)
	assert.Equal(t, "keboola.ex-salesforce", got.ComponentID)
	assert.Equal(t, "in", got.BucketStage)
	assert.Equal(t, int64(1234), got.RowsCount)

	require.NotNil(t, got.LastImportDate)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got.LastImportDate.UTC())
	require.NotNil(t, got.LastChangeDate)
}

func TestCatalogAPI_GetTableDetail_CoercesNegativeRowCount(t *testing.T) {
	fetcher := &fakeFetcher{
		details: map[string]*keboola.Table{
			"in.c-crm.alias": {
				ID:        "in.c-crm.alias",
				Name:      "alias",
				RowsCount: -1,
			},
		},
	}

	api := httpapi.NewCatalogAPI(fetcher, zerolog.Nop())

	got, err := api.GetTableDetail(context.Background(), service.TableRef{ID: "in.c-crm.alias"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.RowsCount)
}

func TestCatalogAPI_GetTableDetail_NameFallbacks(t *testing.T) {
	fetcher := &fakeFetcher{
		details: map[string]*keboola.Table{
			"in.c-crm.raw": {
				ID:   "in.c-crm.raw",
				Name: "raw",
				Metadata: []keboola.MetadataEntry{
					{Key: keboola.MetadataKeyName, Value: "Raw Events"},
				},
			},
		},
	}

	api := httpapi.NewCatalogAPI(fetcher, zerolog.Nop())

	got, err := api.GetTableDetail(context.Background(), service.TableRef{ID: "in.c-crm.raw"})
	require.NoError(t, err)

	assert.Equal(t, "Raw Events", got.Name)
	assert.Equal(t, "Raw Events", got.DisplayName)
	assert.Nil(t, got.LastImportDate)
	assert.Nil(t, got.LastChangeDate)
}

func TestCatalogAPI_GetTableDetail_NotExist(t *testing.T) {
	api := httpapi.NewCatalogAPI(&fakeFetcher{}, zerolog.Nop())

	_, err := api.GetTableDetail(context.Background(), service.TableRef{ID: "in.c-crm.gone"})
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.NotExist, err))
}
