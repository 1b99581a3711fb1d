package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/useradmin/user-admin/backend/internal/model/user"
)

var ErrNotFound = errors.New("user not found")

// Client calls the user admin HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// List fetches every user, or the search result when query is non-empty.
func (c *Client) List(ctx context.Context, query, fields string) ([]user.User, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if fields != "" {
		params.Set("fields", fields)
	}
	path := "/api/users"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out struct {
		Items []user.User `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) Get(ctx context.Context, id int) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodGet, userPath(id), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, fields user.Fields) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodPost, "/api/users", fields, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id int, patch user.Patch) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodPatch, userPath(id), patch, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id int) string {
	return "/api/users/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
