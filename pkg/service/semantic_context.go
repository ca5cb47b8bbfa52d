package service

import (
	"context"
	"time"
)

type SemanticContextAPI interface {
	AddStatement(ctx context.Context, statement SemanticStatement) (string, error)
	DeleteStatement(ctx context.Context, statementID string) error
	ListStatementIDs(ctx context.Context) ([]string, error)
}

type SemanticContextService interface {
	BuildStatements(tables []*TableMetadata) []SemanticStatement
	AddStatements(ctx context.Context, statements []SemanticStatement) (*AddResult, error)
	DeleteStatements(ctx context.Context, statementIDs []string) (*DeleteResult, error)
	DeleteStatementsFromFile(ctx context.Context, fileName string) (*DeleteResult, error)
}

type StatementStorage interface {
	SaveRun(ctx context.Context, run *StatementRun) (string, error)
	ReadRun(ctx context.Context, fileName string) (*StatementRun, error)
	SaveStatements(ctx context.Context, statements []SemanticStatement) (string, error)
	ListRunFiles(ctx context.Context) ([]string, error)
}

// SemanticStatement is one natural-language statement derived from a
// table's metadata. It is built deterministically and never mutated.
type SemanticStatement struct {
	TableID         string   `json:"tableID"`
	Statement       string   `json:"statement"`
	AlwaysInclude   bool     `json:"alwaysInclude"`
	Critical        bool     `json:"critical"`
	Labels          []string `json:"labels"`
	LookupSummaries []string `json:"lookupSummaries"`
}

// StatementRecord ties a remotely stored statement id back to the table
// it was derived from. Records are the durable output of an add run and
// the input of a later delete run.
type StatementRecord struct {
	StatementID   string    `json:"statementID"`
	SourceTableID string    `json:"sourceTableID"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatementRun is the persisted batch of records created by one add run.
type StatementRun struct {
	RunID     string            `json:"runID"`
	Project   string            `json:"project"`
	Timestamp time.Time         `json:"timestamp"`
	Records   []StatementRecord `json:"records"`
}

type AddResult struct {
	Records  []StatementRecord `json:"records"`
	FileName string            `json:"fileName"`
	Summary  RunSummary        `json:"summary"`
}

type DeleteResult struct {
	Deleted int        `json:"deleted"`
	Summary RunSummary `json:"summary"`
}

// RunSummary reports per-item outcomes for one batch operation.
type RunSummary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
}
