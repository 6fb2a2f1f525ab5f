package account_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	testutils.E2ETestSuite
}

func TestAccountTestSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (s *AccountTestSuite) TestCreateAndGet() {
	u, token := s.CreateTestUser()
	id := s.CreateAccount(token, "EUR", 250.5)

	resp := s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", id), "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var a account.Account
	s.DecodeData(resp, &a)
	s.Equal(u.ID, a.OwnerID)
	s.Equal("EUR", a.Currency)
	s.InDelta(250.5, a.Balance, 0.001)
}

func (s *AccountTestSuite) TestCreate_InvalidCurrency() {
	_, token := s.CreateTestUser()
	resp := s.MakeRequest(http.MethodPost, "/accounts", `{"currency":"XXXX"}`, token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AccountTestSuite) TestCreate_ForSomeoneElseForbidden() {
	_, token := s.CreateTestUser()
	bob, _ := s.CreateTestUser()
	resp := s.MakeJSONRequest(http.MethodPost, "/accounts", map[string]any{
		"currency": "USD",
		"owner_id": bob.ID,
	}, token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *AccountTestSuite) TestList_ScopedToOwner() {
	_, aliceToken := s.CreateTestUser()
	_, bobToken := s.CreateTestUser()
	s.CreateAccount(aliceToken, "USD", 1)
	s.CreateAccount(aliceToken, "EUR", 2)
	s.CreateAccount(bobToken, "USD", 3)
	_, adminToken := s.CreateAdmin()

	var accounts []account.Account
	resp := s.MakeRequest(http.MethodGet, "/accounts", "", aliceToken)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.DecodeData(resp, &accounts)
	s.Len(accounts, 2)

	resp = s.MakeRequest(http.MethodGet, "/accounts", "", adminToken)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.DecodeData(resp, &accounts)
	s.Len(accounts, 3)
}

func (s *AccountTestSuite) TestListUserAccounts() {
	alice, aliceToken := s.CreateTestUser()
	bob, _ := s.CreateTestUser()
	s.CreateAccount(aliceToken, "USD", 1)

	resp := s.MakeRequest(http.MethodGet, fmt.Sprintf("/users/%d/accounts", alice.ID), "", aliceToken)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var accounts []account.Account
	s.DecodeData(resp, &accounts)
	s.Len(accounts, 1)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/users/%d/accounts", bob.ID), "", aliceToken)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *AccountTestSuite) TestGet_OtherOwnerForbidden() {
	_, aliceToken := s.CreateTestUser()
	_, bobToken := s.CreateTestUser()
	id := s.CreateAccount(aliceToken, "USD", 1)

	resp := s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", id), "", bobToken)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *AccountTestSuite) TestUpdate_SetsBalance() {
	_, token := s.CreateTestUser()
	id := s.CreateAccount(token, "USD", 1)

	resp := s.MakeJSONRequest(http.MethodPut, fmt.Sprintf("/accounts/%d", id), map[string]any{
		"id":       id,
		"currency": "USD",
		"balance":  99.5,
	}, token)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", id), "", token)
	var a account.Account
	s.DecodeData(resp, &a)
	s.InDelta(99.5, a.Balance, 0.001)
}

func (s *AccountTestSuite) TestUpdate_IDMismatch() {
	_, token := s.CreateTestUser()
	id := s.CreateAccount(token, "USD", 1)

	resp := s.MakeJSONRequest(http.MethodPut, fmt.Sprintf("/accounts/%d", id), map[string]any{
		"id":       id + 1,
		"currency": "USD",
		"balance":  500,
	}, token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", id), "", token)
	var a account.Account
	s.DecodeData(resp, &a)
	s.InDelta(1.0, a.Balance, 0.001)
}

func (s *AccountTestSuite) TestUpdate_Missing() {
	_, adminToken := s.CreateAdmin()
	resp := s.MakeRequest(http.MethodPut, "/accounts/4242", `{"currency":"USD"}`, adminToken)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *AccountTestSuite) TestDelete_RestrictedByTransactions() {
	_, token := s.CreateTestUser()
	from := s.CreateAccount(token, "USD", 100)
	to := s.CreateAccount(token, "USD", 0)

	resp := s.MakeJSONRequest(http.MethodPost, "/transactions", map[string]any{
		"amount":      10,
		"currency":    "USD",
		"sender_id":   from,
		"receiver_id": to,
	}, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest(http.MethodDelete, fmt.Sprintf("/accounts/%d", from), "", token)
	s.Equal(fiber.StatusConflict, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", from), "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *AccountTestSuite) TestDelete_CascadesCards() {
	_, token := s.CreateTestUser()
	id := s.CreateAccount(token, "USD", 0)
	resp := s.MakeJSONRequest(http.MethodPost, "/cards", map[string]any{
		"number":          "4111111111111111",
		"holder_name":     "Test User",
		"expiration_date": "2030-12-31",
		"cvv":             "123",
		"account_id":      id,
	}, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var card struct {
		ID uint `json:"id"`
	}
	s.DecodeData(resp, &card)

	resp = s.MakeRequest(http.MethodDelete, fmt.Sprintf("/accounts/%d", id), "", token)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/cards/%d", card.ID), "", token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}
