package testenv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

const loginMutation = `
mutation Login($username: String!, $password: String!) {
  login(username: $username, password: $password) {
    __typename
    ... on CurrentUser { id identifier }
    ... on ErrorResult { errorCode message }
  }
}`

const logoutMutation = `mutation Logout { logout { success } }`

// GraphQLError is one entry of a GraphQL response's errors list
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// ResponseError is returned when a response carries GraphQL errors
type ResponseError struct {
	Status int
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Message)
	}
	return fmt.Sprintf("graphql: status %d: %s", e.Status, strings.Join(msgs, "; "))
}

// LoginResult is the outcome of a login mutation
type LoginResult struct {
	Typename   string `json:"__typename"`
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
}

// SimpleGraphQLClient talks to one GraphQL API of a TestServer. It keeps the
// auth token returned by the server and sends it with every request, like a
// browser client would.
type SimpleGraphQLClient struct {
	baseURL    func() string
	apiPath    string
	httpClient *http.Client

	authTokenHeader    string
	channelTokenHeader string
	superadminUsername string
	superadminPassword string

	mu           sync.Mutex
	authToken    string
	channelToken string
}

func newClient(baseURL func() string, apiPath string, cfg clientConfig) *SimpleGraphQLClient {
	return &SimpleGraphQLClient{
		baseURL:            baseURL,
		apiPath:            apiPath,
		httpClient:         &http.Client{},
		authTokenHeader:    cfg.authTokenHeader,
		channelTokenHeader: cfg.channelTokenHeader,
		superadminUsername: cfg.superadminUsername,
		superadminPassword: cfg.superadminPassword,
		channelToken:       cfg.channelToken,
	}
}

type clientConfig struct {
	authTokenHeader    string
	channelTokenHeader string
	channelToken       string
	superadminUsername string
	superadminPassword string
}

// SetChannelToken selects the channel subsequent requests address
func (c *SimpleGraphQLClient) SetChannelToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelToken = token
}

// SetAuthToken replaces the bearer token sent with requests
func (c *SimpleGraphQLClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// AuthToken returns the current bearer token
func (c *SimpleGraphQLClient) AuthToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authToken
}

// Query executes a GraphQL document and decodes the data member into out,
// which may be nil. GraphQL errors are returned as *ResponseError.
func (c *SimpleGraphQLClient) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+c.apiPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.channelToken != "" {
		req.Header.Set(c.channelTokenHeader, c.channelToken)
	}
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if values, ok := resp.Header[http.CanonicalHeaderKey(c.authTokenHeader)]; ok && len(values) > 0 {
		c.SetAuthToken(values[0])
	}

	var payload struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if len(payload.Errors) > 0 || resp.StatusCode != http.StatusOK {
		return &ResponseError{Status: resp.StatusCode, Errors: payload.Errors}
	}
	if out == nil || len(payload.Data) == 0 {
		return nil
	}
	return json.Unmarshal(payload.Data, out)
}

// AsUserWithCredentials logs in and keeps the returned session token.
// A login answered with an error result is returned as an error.
func (c *SimpleGraphQLClient) AsUserWithCredentials(ctx context.Context, username, password string) (*LoginResult, error) {
	// a previous session must not leak into the new one
	c.SetAuthToken("")

	var data struct {
		Login LoginResult `json:"login"`
	}
	vars := map[string]any{"username": username, "password": password}
	if err := c.Query(ctx, loginMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.Login.Typename != "CurrentUser" {
		return &data.Login, fmt.Errorf("login as %q failed: %s: %s", username, data.Login.ErrorCode, data.Login.Message)
	}
	return &data.Login, nil
}

// AsSuperAdmin logs in with the configured superadmin credentials
func (c *SimpleGraphQLClient) AsSuperAdmin(ctx context.Context) error {
	_, err := c.AsUserWithCredentials(ctx, c.superadminUsername, c.superadminPassword)
	return err
}

// AsAnonymousUser ends the current session
func (c *SimpleGraphQLClient) AsAnonymousUser(ctx context.Context) error {
	if c.AuthToken() == "" {
		return nil
	}
	if err := c.Query(ctx, logoutMutation, nil, nil); err != nil {
		return err
	}
	c.SetAuthToken("")
	return nil
}
