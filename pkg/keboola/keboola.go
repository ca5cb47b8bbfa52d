// Package keboola provides a client for the Keboola Storage API.
// - https://keboola.docs.apiary.io/
package keboola

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/keboola/waii-integration/pkg/errs"
)

const (
	// TokenHeader carries the Storage API token on every request.
	TokenHeader = "X-StorageApi-Token"
)

// Metadata keys attached to tables by the Keboola platform.
const (
	MetadataKeyName                 = "KBC.name"
	MetadataKeyDescription          = "KBC.description"
	MetadataKeyCreatedByComponentID = "KBC.createdBy.component.id"
)

type Fetcher interface {
	ListBuckets(ctx context.Context) ([]Bucket, error)
	ListTables(ctx context.Context, bucketID string) ([]Table, error)
	GetTableDetail(ctx context.Context, tableID string) (*Table, error)
	GetComponent(ctx context.Context, componentID string) (*Component, error)
}

type Client struct {
	client *http.Client
	apiURL string
	token  string
}

type Bucket struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Stage          string `json:"stage"`
	Description    string `json:"description"`
	Created        string `json:"created"`
	LastChangeDate string `json:"lastChangeDate"`
	RowsCount      int64  `json:"rowsCount"`
	DataSizeBytes  int64  `json:"dataSizeBytes"`
}

type Table struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	PrimaryKey     []string        `json:"primaryKey"`
	Created        string          `json:"created"`
	LastChangeDate string          `json:"lastChangeDate"`
	LastImportDate string          `json:"lastImportDate"`
	RowsCount      int64           `json:"rowsCount"`
	DataSizeBytes  int64           `json:"dataSizeBytes"`
	Columns        []string        `json:"columns"`
	Metadata       []MetadataEntry `json:"metadata"`
	Bucket         *Bucket         `json:"bucket"`
}

type MetadataEntry struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Provider  string `json:"provider"`
	Timestamp string `json:"timestamp"`
}

type Component struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	LongDescription  string `json:"longDescription"`
	Documentation    string `json:"documentation"`
	DocumentationURL string `json:"documentationUrl"`
}

// DisplayDescription returns the most detailed description available
// for the component, falling back to its name and finally its id.
func (c *Component) DisplayDescription() string {
	switch {
	case c.LongDescription != "":
		return c.LongDescription
	case c.Description != "":
		return c.Description
	case c.Documentation != "":
		return c.Documentation
	case c.Name != "":
		return c.Name
	}

	return fmt.Sprintf("Component %s", c.ID)
}

// MetadataValue returns the value of the metadata entry with the given
// key, or an empty string when the table carries no such entry.
func (t *Table) MetadataValue(key string) string {
	for _, m := range t.Metadata {
		if m.Key == key {
			return m.Value
		}
	}

	return ""
}

func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	const op errs.Op = "keboola.ListBuckets"

	url := fmt.Sprintf("%s/v2/storage/buckets", c.apiURL)

	var buckets []Bucket
	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, url, &buckets)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return buckets, nil
}

func (c *Client) ListTables(ctx context.Context, bucketID string) ([]Table, error) {
	const op errs.Op = "keboola.ListTables"

	url := fmt.Sprintf("%s/v2/storage/buckets/%s/tables", c.apiURL, bucketID)

	var tables []Table
	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, url, &tables)
	if err != nil {
		return nil, errs.E(op, err, errs.Parameter("bucket_id"))
	}

	return tables, nil
}

func (c *Client) GetTableDetail(ctx context.Context, tableID string) (*Table, error) {
	const op errs.Op = "keboola.GetTableDetail"

	url := fmt.Sprintf("%s/v2/storage/tables/%s", c.apiURL, tableID)

	table := &Table{}
	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, url, table)
	if err != nil {
		return nil, errs.E(op, err, errs.Parameter("table_id"))
	}

	return table, nil
}

func (c *Client) GetComponent(ctx context.Context, componentID string) (*Component, error) {
	const op errs.Op = "keboola.GetComponent"

	url := fmt.Sprintf("%s/v2/storage/components/%s", c.apiURL, componentID)

	component := &Component{}
	err := c.sendRequestAndDeserialize(ctx, http.MethodGet, url, component)
	if err != nil {
		return nil, errs.E(op, err, errs.Parameter("component_id"))
	}

	return component, nil
}

func (c *Client) sendRequestAndDeserialize(ctx context.Context, method, url string, into any) error {
	const op errs.Op = "keboola.sendRequestAndDeserialize"

	req, err := c.newRequestWithHeaders(ctx, method, url)
	if err != nil {
		return errs.E(op, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errs.E(op, errs.Transient, fmt.Errorf("sending request: %w", err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errs.E(op, kindFromStatusCode(res.StatusCode), fmt.Errorf("unexpected status code: %d", res.StatusCode))
	}

	err = json.NewDecoder(res.Body).Decode(into)
	if err != nil {
		return errs.E(op, errs.IO, fmt.Errorf("decoding response: %w", err))
	}

	return nil
}

func (c *Client) newRequestWithHeaders(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errs.E(errs.IO, fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(TokenHeader, c.token)

	return req, nil
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

func New(apiURL, token string, client *http.Client) *Client {
	return &Client{
		apiURL: apiURL,
		token:  token,
		client: client,
	}
}
