package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/service"
)

const (
	// ProjectLabel marks every statement this tool creates, so they can
	// be told apart from hand-written context in the same store.
	ProjectLabel = "kb_project"

	// maxStatementColumns bounds how many column names are spelled out
	// in one table statement before collapsing into a count.
	maxStatementColumns = 10
)

var _ service.SemanticContextService = &semanticContextService{}

type semanticContextService struct {
	api     service.SemanticContextAPI
	storage service.StatementStorage
	project string
	log     zerolog.Logger
}

// BuildStatements derives one semantic statement per table. The mapping
// is deterministic: the same input sequence always produces the same
// statements in the same order.
func (s *semanticContextService) BuildStatements(tables []*service.TableMetadata) []service.SemanticStatement {
	statements := make([]service.SemanticStatement, 0, len(tables))

	for _, table := range tables {
		statements = append(statements, service.SemanticStatement{
			TableID:       table.ID,
			Statement:     buildTableStatement(table),
			AlwaysInclude: false,
			Critical:      false,
			Labels:        []string{ProjectLabel},
			LookupSummaries: []string{
				table.DisplayName,
				table.ID,
				"source",
				"component",
				"created by",
				"fresh",
				"updated",
				"recent",
				"size",
				"row count",
				"volume",
			},
		})
	}

	return statements
}

func buildTableStatement(table *service.TableMetadata) string {
	var parts []string

	displayName := table.DisplayName
	if displayName == "" {
		displayName = table.ID
	}

	if table.Description == "" {
		parts = append(parts, fmt.Sprintf("Table '%s' contains %d rows.", displayName, table.RowsCount))
	} else {
		parts = append(parts, fmt.Sprintf("Table '%s' has this description: %s. It contains %d rows.", displayName, table.Description, table.RowsCount))
	}

	if len(table.Columns) > 0 {
		shown := table.Columns
		overflow := ""

		if len(shown) > maxStatementColumns {
			overflow = fmt.Sprintf(", and %d more columns", len(shown)-maxStatementColumns)
			shown = shown[:maxStatementColumns]
		}

		parts = append(parts, fmt.Sprintf("Columns: %s%s.", strings.Join(shown, ", "), overflow))
	}

	if table.ComponentID != "" {
		if table.ComponentDescription != "" {
			parts = append(parts, fmt.Sprintf("It was created by %s (%s).", table.ComponentID, table.ComponentDescription))
		} else {
			parts = append(parts, fmt.Sprintf("It was created by %s.", table.ComponentID))
		}
	}

	var freshness []string
	if table.LastImportDate != nil {
		freshness = append(freshness, fmt.Sprintf("last imported on %s", table.LastImportDate.Format(time.RFC3339)))
	}
	if table.LastChangeDate != nil {
		freshness = append(freshness, fmt.Sprintf("last changed on %s", table.LastChangeDate.Format(time.RFC3339)))
	}
	if len(freshness) > 0 {
		parts = append(parts, fmt.Sprintf("Data is %s.", strings.Join(freshness, ", ")))
	}

	if table.BucketID != "" {
		parts = append(parts, fmt.Sprintf("Located in %s stage, bucket %s.", table.BucketStage, table.BucketID))
	}

	return strings.Join(parts, " ")
}

// AddStatements submits each statement to the semantic context store.
// Per-item failures are logged and skipped; rejected credentials abort
// the batch. The ids of all successful additions are written to one new
// timestamped run file, and failure to write that file is fatal since
// unrecorded ids cannot be deleted later.
func (s *semanticContextService) AddStatements(ctx context.Context, statements []service.SemanticStatement) (*service.AddResult, error) {
	const op errs.Op = "semanticContextService.AddStatements"

	if fileName, err := s.storage.SaveStatements(ctx, statements); err != nil {
		s.log.Warn().Err(err).Msg("saving statement batch for audit")
	} else {
		s.log.Info().Str("file", fileName).Msg("saved statement batch")
	}

	summary := service.RunSummary{Attempted: len(statements)}

	records := make([]service.StatementRecord, 0, len(statements))

	for _, statement := range statements {
		id, err := s.api.AddStatement(ctx, statement)
		if err != nil {
			if errs.KindIs(errs.Unauthenticated, err) {
				return nil, errs.E(op, err)
			}

			summary.Skipped++
			s.log.Warn().Err(err).Str("table_id", statement.TableID).Msg("skipping statement")

			continue
		}

		summary.Succeeded++

		records = append(records, service.StatementRecord{
			StatementID:   id,
			SourceTableID: statement.TableID,
			CreatedAt:     time.Now().UTC(),
		})
	}

	result := &service.AddResult{
		Records: records,
		Summary: summary,
	}

	if len(records) == 0 {
		s.log.Warn().Msg("no statements were added, skipping run file")

		return result, nil
	}

	fileName, err := s.storage.SaveRun(ctx, &service.StatementRun{
		RunID:     uuid.New().String(),
		Project:   s.project,
		Timestamp: time.Now().UTC(),
		Records:   records,
	})
	if err != nil {
		return nil, errs.E(op, err)
	}

	result.FileName = fileName

	return result, nil
}

func (s *semanticContextService) DeleteStatements(ctx context.Context, statementIDs []string) (*service.DeleteResult, error) {
	const op errs.Op = "semanticContextService.DeleteStatements"

	summary := service.RunSummary{Attempted: len(statementIDs)}

	for _, id := range statementIDs {
		err := s.api.DeleteStatement(ctx, id)
		if err != nil {
			if errs.KindIs(errs.Unauthenticated, err) {
				return nil, errs.E(op, err)
			}

			summary.Skipped++
			s.log.Warn().Err(err).Str("statement_id", id).Msg("skipping statement deletion")

			continue
		}

		summary.Succeeded++
	}

	return &service.DeleteResult{
		Deleted: summary.Succeeded,
		Summary: summary,
	}, nil
}

func (s *semanticContextService) DeleteStatementsFromFile(ctx context.Context, fileName string) (*service.DeleteResult, error) {
	const op errs.Op = "semanticContextService.DeleteStatementsFromFile"

	run, err := s.storage.ReadRun(ctx, fileName)
	if err != nil {
		return nil, errs.E(op, err, errs.Parameter("file_name"))
	}

	ids := make([]string, 0, len(run.Records))
	for _, record := range run.Records {
		ids = append(ids, record.StatementID)
	}

	s.log.Info().Str("run_id", run.RunID).Int("statements", len(ids)).Msg("deleting statements from run file")

	result, err := s.DeleteStatements(ctx, ids)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return result, nil
}

func NewSemanticContextService(api service.SemanticContextAPI, storage service.StatementStorage, project string, log zerolog.Logger) *semanticContextService {
	return &semanticContextService{
		api:     api,
		storage: storage,
		project: project,
		log:     log,
	}
}
