// Package testutils runs the full HTTP stack against a private database.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/repository"
	pkgtestutils "github.com/amirasaad/bank/pkg/testutils"
	"github.com/amirasaad/bank/webapi"
	"github.com/amirasaad/bank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite running the fiber app over an
// in-memory sqlite database. Every test gets a fresh database.
type E2ETestSuite struct {
	suite.Suite
	App *app.App
	Uow repository.UnitOfWork
	Cfg *config.App

	fiberApp *fiber.App
}

// SetupSuite silences the fiber logger used for internal errors.
func (s *E2ETestSuite) SetupSuite() {
	log.SetOutput(io.Discard)
}

// SetupTest builds a new application over an empty database.
func (s *E2ETestSuite) SetupTest() {
	s.Cfg = pkgtestutils.NewConfig()
	s.Uow = pkgtestutils.NewTestUoW(s.T())
	s.App = app.New(&app.Deps{Uow: s.Uow, Logger: pkgtestutils.NewLogger()}, s.Cfg)
	s.fiberApp = webapi.SetupApp(s.App)
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.fiberApp.Test(req, -1)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// MakeJSONRequest marshals body and sends it.
func (s *E2ETestSuite) MakeJSONRequest(method, path string, body any, token string) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	return s.MakeRequest(method, path, string(raw), token)
}

// DecodeData decodes the data member of a success envelope into out.
func (s *E2ETestSuite) DecodeData(resp *http.Response, out any) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().NoError(json.Unmarshal(envelope.Data, out))
}

// DecodeProblem decodes a problem details response.
func (s *E2ETestSuite) DecodeProblem(resp *http.Response) common.ProblemDetails {
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// RegisterUser registers a user through POST /register with the default
// password and returns it.
func (s *E2ETestSuite) RegisterUser(username string) *user.User {
	resp := s.MakeJSONRequest(http.MethodPost, "/register", map[string]string{
		"username":    username,
		"password":    pkgtestutils.DefaultPassword,
		"first_name":  "Test",
		"last_name":   "User",
		"national_id": "ID-" + username,
		"email":       username + "@example.com",
	}, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var u user.User
	s.DecodeData(resp, &u)
	return &u
}

// LoginUser makes an actual HTTP request to login and returns the JWT token
func (s *E2ETestSuite) LoginUser(username string) string {
	resp := s.MakeJSONRequest(http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": pkgtestutils.DefaultPassword,
	}, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var data struct {
		Token string `json:"token"`
	}
	s.DecodeData(resp, &data)
	s.Require().NotEmpty(data.Token, "No token found in response")
	return data.Token
}

// CreateTestUser registers a user with a random name and logs it in.
func (s *E2ETestSuite) CreateTestUser() (*user.User, string) {
	username := fmt.Sprintf("user_%s", uuid.NewString()[:8])
	u := s.RegisterUser(username)
	return u, s.LoginUser(username)
}

// CreateAdmin creates an administrator directly in the store and logs it in.
func (s *E2ETestSuite) CreateAdmin() (*user.User, string) {
	username := fmt.Sprintf("admin_%s", uuid.NewString()[:8])
	u := pkgtestutils.CreateUser(s.T(), s.Uow, s.App.AuthService, username, user.RoleAdmin)
	return u, s.LoginUser(username)
}

// CreateAccount opens an account for the token holder.
func (s *E2ETestSuite) CreateAccount(token, currency string, balance float64) uint {
	resp := s.MakeJSONRequest(http.MethodPost, "/accounts", map[string]any{
		"currency": currency,
		"balance":  balance,
	}, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var data struct {
		ID uint `json:"id"`
	}
	s.DecodeData(resp, &data)
	return data.ID
}
