// Package client is a Go client for the bank API. Authentication state lives
// in an explicit Session owned by the Client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
)

// ErrNotLoggedIn is returned by calls that need a token when the session is empty.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a problem details response from the server.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

// Is matches the domain sentinel the status code stands for.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == domain.ErrValidation
	case http.StatusUnauthorized:
		return target == domain.ErrUnauthorized
	case http.StatusForbidden:
		return target == domain.ErrForbidden
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	case http.StatusConflict:
		return target == domain.ErrConflict
	}
	return false
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSession shares an existing session.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// Register creates a user. The session is left untouched.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodPost, "/register", in, &u, false); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and loads the profile into the session.
func (c *Client) Login(ctx context.Context, username, password string) (*user.User, error) {
	var out dto.LoginResponse
	in := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", in, &out, false); err != nil {
		return nil, err
	}
	c.session.Set(out.Token, nil)
	u, err := c.Profile(ctx)
	if err != nil {
		c.session.Clear()
		return nil, err
	}
	c.session.Set(out.Token, u)
	return u, nil
}

func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) Profile(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Users(ctx context.Context) ([]user.User, error) {
	var out []user.User
	return out, c.do(ctx, http.MethodGet, "/users", nil, &out, true)
}

func (c *Client) User(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, in dto.UserInput) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodPost, "/users", in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, in dto.UserInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), in, nil, true)
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, true)
}

func (c *Client) Accounts(ctx context.Context) ([]account.Account, error) {
	var out []account.Account
	return out, c.do(ctx, http.MethodGet, "/accounts", nil, &out, true)
}

func (c *Client) UserAccounts(ctx context.Context, userID uint) ([]account.Account, error) {
	var out []account.Account
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/accounts", userID), nil, &out, true)
}

func (c *Client) Account(ctx context.Context, id uint) (*account.Account, error) {
	var a account.Account
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/accounts/%d", id), nil, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateAccount(ctx context.Context, in dto.AccountInput) (*account.Account, error) {
	var a account.Account
	if err := c.do(ctx, http.MethodPost, "/accounts", in, &a, true); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAccount(ctx context.Context, id uint, in dto.AccountInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/accounts/%d", id), in, nil, true)
}

func (c *Client) DeleteAccount(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/accounts/%d", id), nil, nil, true)
}

func (c *Client) Cards(ctx context.Context) ([]card.Card, error) {
	var out []card.Card
	return out, c.do(ctx, http.MethodGet, "/cards", nil, &out, true)
}

func (c *Client) AccountCards(ctx context.Context, accountID uint) ([]card.Card, error) {
	var out []card.Card
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/accounts/%d/cards", accountID), nil, &out, true)
}

func (c *Client) Card(ctx context.Context, id uint) (*card.Card, error) {
	var cd card.Card
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d", id), nil, &cd, true); err != nil {
		return nil, err
	}
	return &cd, nil
}

func (c *Client) CreateCard(ctx context.Context, in dto.CardInput) (*card.Card, error) {
	var cd card.Card
	if err := c.do(ctx, http.MethodPost, "/cards", in, &cd, true); err != nil {
		return nil, err
	}
	return &cd, nil
}

func (c *Client) UpdateCard(ctx context.Context, id uint, in dto.CardInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/cards/%d", id), in, nil, true)
}

func (c *Client) DeleteCard(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", id), nil, nil, true)
}

func (c *Client) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	return out, c.do(ctx, http.MethodGet, "/transactions", nil, &out, true)
}

func (c *Client) AccountTransactions(ctx context.Context, accountID uint) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/accounts/%d/transactions", accountID), nil, &out, true)
}

func (c *Client) Transaction(ctx context.Context, id uint) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, &tx, true); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction records a transaction. Balances are not moved.
func (c *Client) CreateTransaction(ctx context.Context, in dto.TransactionInput) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", in, &tx, true); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id uint, in dto.TransactionInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), in, nil, true)
}

func (c *Client) DeleteTransaction(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil, true)
}

// do sends body as JSON and decodes the data member of the success envelope
// into out. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token, _ := c.session.Get()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		// bodies that are not problem details keep the status text
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}
