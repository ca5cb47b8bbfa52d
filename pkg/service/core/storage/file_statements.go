// Package storage persists the durable output of synchronization runs.
// Each add run writes one new timestamped file; files are never edited
// in place.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/service"
)

const (
	timestampLayout = "20060102_150405"

	runFilePattern        = "semantic_statements_ids_%s.json"
	statementsFilePattern = "semantic_statements_%s.json"
)

var _ service.StatementStorage = &fileStatementStorage{}

type fileStatementStorage struct {
	idsDir        string
	statementsDir string
	project       string
	log           zerolog.Logger
}

type statementsFile struct {
	Timestamp  string                      `json:"timestamp"`
	Project    string                      `json:"project"`
	Count      int                         `json:"statement_count"`
	Statements []service.SemanticStatement `json:"statements"`
}

func (s *fileStatementStorage) SaveRun(ctx context.Context, run *service.StatementRun) (string, error) {
	const op errs.Op = "fileStatementStorage.SaveRun"

	fileName := filepath.Join(s.idsDir, fmt.Sprintf(runFilePattern, run.Timestamp.Format(timestampLayout)))

	err := writeJSONFile(s.idsDir, fileName, run)
	if err != nil {
		return "", errs.E(op, err)
	}

	s.log.Info().Int("records", len(run.Records)).Str("file", fileName).Msg("saved statement ids")

	return fileName, nil
}

func (s *fileStatementStorage) ReadRun(ctx context.Context, fileName string) (*service.StatementRun, error) {
	const op errs.Op = "fileStatementStorage.ReadRun"

	if !filepath.IsAbs(fileName) && !strings.ContainsRune(fileName, os.PathSeparator) {
		fileName = filepath.Join(s.idsDir, fileName)
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.E(op, errs.NotExist, err, errs.Parameter("file_name"))
		}

		return nil, errs.E(op, errs.IO, err)
	}

	run := &service.StatementRun{}
	err = json.Unmarshal(data, run)
	if err != nil {
		return nil, errs.E(op, errs.IO, fmt.Errorf("decoding run file: %w", err))
	}

	return run, nil
}

func (s *fileStatementStorage) SaveStatements(ctx context.Context, statements []service.SemanticStatement) (string, error) {
	const op errs.Op = "fileStatementStorage.SaveStatements"

	now := time.Now()

	fileName := filepath.Join(s.statementsDir, fmt.Sprintf(statementsFilePattern, now.Format(timestampLayout)))

	err := writeJSONFile(s.statementsDir, fileName, &statementsFile{
		Timestamp:  now.Format(timestampLayout),
		Project:    s.project,
		Count:      len(statements),
		Statements: statements,
	})
	if err != nil {
		return "", errs.E(op, err)
	}

	return fileName, nil
}

func (s *fileStatementStorage) ListRunFiles(ctx context.Context) ([]string, error) {
	const op errs.Op = "fileStatementStorage.ListRunFiles"

	entries, err := os.ReadDir(s.idsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errs.E(op, errs.IO, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		files = append(files, entry.Name())
	}

	// Timestamped names keep runs ordered oldest first.
	sort.Strings(files)

	return files, nil
}

func writeJSONFile(dir, fileName string, data any) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return errs.E(errs.IO, fmt.Errorf("creating directory: %w", err))
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errs.E(errs.IO, fmt.Errorf("encoding: %w", err))
	}

	err = os.WriteFile(fileName, encoded, 0o644)
	if err != nil {
		return errs.E(errs.IO, fmt.Errorf("writing file: %w", err))
	}

	return nil
}

func NewFileStatementStorage(idsDir, statementsDir, project string, log zerolog.Logger) *fileStatementStorage {
	return &fileStatementStorage{
		idsDir:        idsDir,
		statementsDir: statementsDir,
		project:       project,
		log:           log,
	}
}
