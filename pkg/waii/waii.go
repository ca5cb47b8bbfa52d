// Package waii provides a client for the Waii semantic context API.
// - https://doc.waii.ai/
package waii

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/keboola/waii-integration/pkg/errs"
)

type Fetcher interface {
	ModifySemanticContext(ctx context.Context, req *ModifySemanticContextRequest) (*ModifySemanticContextResponse, error)
	GetSemanticContext(ctx context.Context) ([]SemanticStatement, error)
}

type Client struct {
	client     *http.Client
	apiURL     string
	apiKey     string
	connection string
}

// SemanticStatement is a single natural-language statement in the Waii
// semantic context. ID is assigned by the service when the statement is
// added and must be sent back to delete it.
type SemanticStatement struct {
	ID              string   `json:"id,omitempty"`
	Statement       string   `json:"statement"`
	AlwaysInclude   bool     `json:"always_include"`
	Critical        bool     `json:"critical"`
	Labels          []string `json:"labels,omitempty"`
	LookupSummaries []string `json:"lookup_summaries,omitempty"`
}

type ModifySemanticContextRequest struct {
	Scope   string              `json:"scope,omitempty"`
	Updated []SemanticStatement `json:"updated,omitempty"`
	Deleted []string            `json:"deleted,omitempty"`
}

type ModifySemanticContextResponse struct {
	Updated []SemanticStatement `json:"updated"`
	Deleted []string            `json:"deleted"`
}

type getSemanticContextRequest struct {
	Scope string `json:"scope,omitempty"`
}

type getSemanticContextResponse struct {
	SemanticContext []SemanticStatement `json:"semantic_context"`
}

func (c *Client) ModifySemanticContext(ctx context.Context, req *ModifySemanticContextRequest) (*ModifySemanticContextResponse, error) {
	const op errs.Op = "waii.ModifySemanticContext"

	if req.Scope == "" {
		req.Scope = c.connection
	}

	resp := &ModifySemanticContextResponse{}
	err := c.sendRequestAndDeserialize(ctx, "update-semantic-context", req, resp)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return resp, nil
}

func (c *Client) GetSemanticContext(ctx context.Context) ([]SemanticStatement, error) {
	const op errs.Op = "waii.GetSemanticContext"

	resp := &getSemanticContextResponse{}
	err := c.sendRequestAndDeserialize(ctx, "get-semantic-context", &getSemanticContextRequest{Scope: c.connection}, resp)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return resp.SemanticContext, nil
}

func (c *Client) sendRequestAndDeserialize(ctx context.Context, endpoint string, body, into any) error {
	const op errs.Op = "waii.sendRequestAndDeserialize"

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return errs.E(op, errs.IO, err, errs.Parameter("request_body"))
	}

	url := fmt.Sprintf("%s/%s", c.apiURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return errs.E(op, errs.IO, fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		return errs.E(op, errs.Transient, fmt.Errorf("sending request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errs.E(op, kindFromStatusCode(res.StatusCode), fmt.Errorf("unexpected status code: %d", res.StatusCode))
	}

	if err := json.NewDecoder(res.Body).Decode(into); err != nil {
		return errs.E(op, errs.IO, fmt.Errorf("decoding response: %w", err))
	}

	return nil
}

func kindFromStatusCode(code int) errs.Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errs.Unauthenticated
	case code == http.StatusNotFound:
		return errs.NotExist
	case code >= 500:
		return errs.Transient
	}

	return errs.IO
}

func New(apiURL, apiKey, connection string, client *http.Client) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		connection: connection,
		client:     client,
	}
}
