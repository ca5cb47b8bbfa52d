package service

import (
	"context"
	"time"
)

type CatalogAPI interface {
	ListTables(ctx context.Context) ([]TableRef, error)
	GetTableDetail(ctx context.Context, ref TableRef) (*TableMetadata, error)
}

type ComponentResolver interface {
	Describe(ctx context.Context, componentID string) (string, error)
}

type CollectorService interface {
	Collect(ctx context.Context, limit int) ([]*TableMetadata, error)
}

// TableRef identifies a table in the catalog listing, before its
// detail has been fetched.
type TableRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	BucketID    string `json:"bucketID"`
}

// TableMetadata is the normalized per-table record produced by the
// collector. It is immutable after creation and lives only for the
// duration of one run.
type TableMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	BucketID    string `json:"bucketID"`
	BucketStage string `json:"bucketStage"`

	// RowsCount is never negative; the catalog occasionally reports
	// junk values for alias tables and those are coerced to zero.
	RowsCount int64    `json:"rowsCount"`
	Columns   []string `json:"columns"`

	LastImportDate *time.Time `json:"lastImportDate,omitempty"`
	LastChangeDate *time.Time `json:"lastChangeDate,omitempty"`

	ComponentID          string `json:"componentID,omitempty"`
	ComponentDescription string `json:"componentDescription,omitempty"`
}
