package http

import (
	"context"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/service"
	"github.com/keboola/waii-integration/pkg/waii"
)

var _ service.SemanticContextAPI = &semanticContextAPI{}

type semanticContextAPI struct {
	fetcher waii.Fetcher
}

func (a *semanticContextAPI) AddStatement(ctx context.Context, statement service.SemanticStatement) (string, error) {
	const op errs.Op = "semanticContextAPI.AddStatement"

	resp, err := a.fetcher.ModifySemanticContext(ctx, &waii.ModifySemanticContextRequest{
		Updated: []waii.SemanticStatement{
			{
				Statement:       statement.Statement,
				AlwaysInclude:   statement.AlwaysInclude,
				Critical:        statement.Critical,
				Labels:          statement.Labels,
				LookupSummaries: statement.LookupSummaries,
			},
		},
	})
	if err != nil {
		return "", errs.E(op, err)
	}

	if len(resp.Updated) != 1 || resp.Updated[0].ID == "" {
		return "", errs.E(op, errs.Internal, errs.Str("statement was not acknowledged by the service"))
	}

	return resp.Updated[0].ID, nil
}

func (a *semanticContextAPI) DeleteStatement(ctx context.Context, statementID string) error {
	const op errs.Op = "semanticContextAPI.DeleteStatement"

	_, err := a.fetcher.ModifySemanticContext(ctx, &waii.ModifySemanticContextRequest{
		Deleted: []string{statementID},
	})
	if err != nil {
		return errs.E(op, err, errs.Parameter("statement_id"))
	}

	return nil
}

func (a *semanticContextAPI) ListStatementIDs(ctx context.Context) ([]string, error) {
	const op errs.Op = "semanticContextAPI.ListStatementIDs"

	statements, err := a.fetcher.GetSemanticContext(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	ids := make([]string, 0, len(statements))
	for _, statement := range statements {
		ids = append(ids, statement.ID)
	}

	return ids, nil
}

func NewSemanticContextAPI(fetcher waii.Fetcher) *semanticContextAPI {
	return &semanticContextAPI{
		fetcher: fetcher,
	}
}
