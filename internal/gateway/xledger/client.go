// Package xledger is a minimal client for the Xledger GraphQL API. Every
// collection is exposed as a relay-style connection, so each fetch walks the
// cursor until hasNextPage goes false.
package xledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrAuthFailed indicates the API token was rejected.
	ErrAuthFailed = errors.New("xledger: authentication failed")
	// ErrRequestFailed indicates a failed GraphQL request.
	ErrRequestFailed = errors.New("xledger: request failed")
)

const defaultPageSize = 100

// Client wraps the Xledger GraphQL endpoint.
type Client struct {
	url        string
	token      string
	pageSize   int
	httpClient *http.Client
}

// NewClient constructs a new client with the integration's API token.
func NewClient(url, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        url,
		token:      token,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type connection[T any] struct {
	Edges []struct {
		Node   T      `json:"node"`
		Cursor string `json:"cursor"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pageInfo"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xledger: request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("xledger: decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, decoded.Errors[0].Message)
	}
	return decoded.Data, nil
}

// fetchAll walks a connection field until the last page.
func fetchAll[T any](ctx context.Context, c *Client, field, query string) ([]T, error) {
	var (
		nodes  []T
		cursor string
	)
	for {
		variables := map[string]any{"first": c.pageSize}
		if cursor != "" {
			variables["after"] = cursor
		}
		data, err := c.query(ctx, query, variables)
		if err != nil {
			return nil, err
		}
		raw, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %s", ErrRequestFailed, field)
		}
		var conn connection[T]
		if err := json.Unmarshal(raw, &conn); err != nil {
			return nil, fmt.Errorf("xledger: decode %s: %w", field, err)
		}
		for _, edge := range conn.Edges {
			nodes = append(nodes, edge.Node)
			cursor = edge.Cursor
		}
		if !conn.PageInfo.HasNextPage || len(conn.Edges) == 0 {
			return nodes, nil
		}
	}
}

// Verify runs a minimal query so a bad token fails fast at connect time.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.query(ctx, `query { currentSession { user { username } } }`, nil)
	return err
}

// Account is a general ledger account node.
type Account struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	TaxRule     string `json:"taxRule"`
}

// Accounts fetches all account nodes.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	return fetchAll[Account](ctx, c, "accounts", `query($first: Int!, $after: String) {
  accounts(first: $first, after: $after) {
    edges { node { code description taxRule } cursor }
    pageInfo { hasNextPage }
  }
}`)
}

// Project is a project node.
type Project struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Projects fetches all project nodes.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	return fetchAll[Project](ctx, c, "projects", `query($first: Int!, $after: String) {
  projects(first: $first, after: $after) {
    edges { node { code description } cursor }
    pageInfo { hasNextPage }
  }
}`)
}

// TaxRule is a tax rule node.
type TaxRule struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// TaxRules fetches all tax rule nodes.
func (c *Client) TaxRules(ctx context.Context) ([]TaxRule, error) {
	return fetchAll[TaxRule](ctx, c, "taxRules", `query($first: Int!, $after: String) {
  taxRules(first: $first, after: $after) {
    edges { node { code description } cursor }
    pageInfo { hasNextPage }
  }
}`)
}

// Company is a company node.
type Company struct {
	CompanyNumber string `json:"companyNumber"`
	Description   string `json:"description"`
}

// Companies fetches all company nodes.
func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	return fetchAll[Company](ctx, c, "companies", `query($first: Int!, $after: String) {
  companies(first: $first, after: $after) {
    edges { node { companyNumber description } cursor }
    pageInfo { hasNextPage }
  }
}`)
}

// GLObject is a general ledger dimension node.
type GLObject struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GLObjects fetches all general ledger object nodes.
func (c *Client) GLObjects(ctx context.Context) ([]GLObject, error) {
	return fetchAll[GLObject](ctx, c, "glObjects", `query($first: Int!, $after: String) {
  glObjects(first: $first, after: $after) {
    edges { node { code description } cursor }
    pageInfo { hasNextPage }
  }
}`)
}

// ObjectKind is a dimension kind node.
type ObjectKind struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ObjectKinds fetches all object kind nodes.
func (c *Client) ObjectKinds(ctx context.Context) ([]ObjectKind, error) {
	return fetchAll[ObjectKind](ctx, c, "objectKinds", `query($first: Int!, $after: String) {
  objectKinds(first: $first, after: $after) {
    edges { node { id name } cursor }
    pageInfo { hasNextPage }
  }
}`)
}
