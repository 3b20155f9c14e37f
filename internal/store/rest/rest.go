// Package rest implements the remote store capability over the backend's
// REST/JSON API. Login exchanges credentials for a JWT; every other call
// sends the persisted token as a bearer credential.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/kvstore"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// Ensure Client implements store.Store.
var _ store.Store = (*Client)(nil)

// Client talks to the backend over HTTP. The JWT persisted by the
// Authenticator is read from the key-value store on every request, so a
// fresh login is picked up without rebuilding the client.
type Client struct {
	baseURL string
	http    *http.Client
	kv      kvstore.Store
}

// New creates a client for the API at baseURL using http.DefaultClient.
func New(baseURL string, kv kvstore.Store) *Client {
	return NewWithHTTPClient(baseURL, kv, http.DefaultClient)
}

// NewWithHTTPClient creates a client with an explicit *http.Client, e.g. one
// configured for h2c.
func NewWithHTTPClient(baseURL string, kv kvstore.Store, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		kv:      kv,
	}
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, payload store.LoginPayload) (store.Token, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return store.Token{}, fmt.Errorf("failed to encode login payload: %w", err)
	}

	var tok store.Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", "application/json", bytes.NewReader(body), &tok); err != nil {
		return store.Token{}, err
	}
	return tok, nil
}

// Users returns the account sub-capability.
func (c *Client) Users() store.UserResource { return usersResource{c} }

// Bills returns the bill sub-capability.
func (c *Client) Bills() store.BillResource { return billsResource{c} }

type usersResource struct {
	c *Client
}

func (u usersResource) Create(ctx context.Context, payload store.CreateUserPayload) error {
	// payload.Data is already serialized JSON.
	return u.c.do(ctx, http.MethodPost, "/users", "application/json", strings.NewReader(payload.Data), nil)
}

type billsResource struct {
	c *Client
}

func (b billsResource) List(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := b.c.do(ctx, http.MethodGet, "/bills", "", nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (b billsResource) Create(ctx context.Context, payload store.CreateBillPayload) (store.CreateBillResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", payload.FileName)
	if err != nil {
		return store.CreateBillResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if payload.File != nil {
		if _, err := io.Copy(part, payload.File); err != nil {
			return store.CreateBillResult{}, fmt.Errorf("failed to read receipt: %w", err)
		}
	}
	if err := form.WriteField("email", payload.Email); err != nil {
		return store.CreateBillResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return store.CreateBillResult{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	var result store.CreateBillResult
	if err := b.c.do(ctx, http.MethodPost, "/bills", form.FormDataContentType(), &body, &result); err != nil {
		return store.CreateBillResult{}, err
	}
	return result, nil
}

func (b billsResource) Update(ctx context.Context, payload store.UpdateBillPayload) (models.Bill, error) {
	var bill models.Bill
	path := "/bills/" + payload.Selector
	if err := b.c.do(ctx, http.MethodPatch, path, "application/json", strings.NewReader(payload.Data), &bill); err != nil {
		return models.Bill{}, err
	}
	return bill, nil
}

// do performs one request against the API, decoding a JSON response into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if jwt, ok := c.kv.GetItem(auth.TokenKey); ok && jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
