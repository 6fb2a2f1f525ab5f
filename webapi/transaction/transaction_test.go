package transaction_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type TransactionTestSuite struct {
	testutils.E2ETestSuite
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}

func (s *TransactionTestSuite) record(token string, from, to uint, amount float64) *http.Response {
	return s.MakeJSONRequest(http.MethodPost, "/transactions", map[string]any{
		"amount":      amount,
		"currency":    "USD",
		"sender_id":   from,
		"receiver_id": to,
	}, token)
}

func (s *TransactionTestSuite) TestEndToEnd_BalanceIsNotMoved() {
	s.RegisterUser("alice")
	token := s.LoginUser("alice")

	resp := s.MakeRequest(http.MethodGet, "/users/profile", "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var alice user.User
	s.DecodeData(resp, &alice)
	s.Equal("alice", alice.Username)

	resp = s.MakeJSONRequest(http.MethodPost, "/accounts", map[string]any{
		"owner_id": alice.ID,
		"currency": "USD",
		"balance":  100.0,
	}, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var from account.Account
	s.DecodeData(resp, &from)

	_, bobToken := s.CreateTestUser()
	to := s.CreateAccount(bobToken, "USD", 0)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", from.ID), "", token)
	var got account.Account
	s.DecodeData(resp, &got)
	s.InDelta(100.0, got.Balance, 0.001)

	resp = s.record(token, from.ID, to, 30)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var created transaction.Transaction
	s.DecodeData(resp, &created)
	s.Regexp(`^TX-[0-9A-F]{12}$`, created.Identifier)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/transactions/%d", created.ID), "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var fetched transaction.Transaction
	s.DecodeData(resp, &fetched)
	s.Equal(created.Identifier, fetched.Identifier)
	s.InDelta(30.0, fetched.Amount, 0.001)
	s.Equal(from.ID, fetched.SenderID)
	s.Equal(to, fetched.ReceiverID)
	s.WithinDuration(created.Time, fetched.Time, time.Second)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", from.ID), "", token)
	s.DecodeData(resp, &got)
	s.InDelta(100.0, got.Balance, 0.001)
}

func (s *TransactionTestSuite) TestCreate_UnknownAccount() {
	_, token := s.CreateTestUser()
	from := s.CreateAccount(token, "USD", 0)
	resp := s.record(token, from, 9999, 1)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *TransactionTestSuite) TestCreate_FromOthersAccountForbidden() {
	_, aliceToken := s.CreateTestUser()
	_, bobToken := s.CreateTestUser()
	from := s.CreateAccount(aliceToken, "USD", 0)
	to := s.CreateAccount(bobToken, "USD", 0)

	resp := s.record(bobToken, from, to, 5)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *TransactionTestSuite) TestVisibility() {
	_, aliceToken := s.CreateTestUser()
	_, bobToken := s.CreateTestUser()
	_, carolToken := s.CreateTestUser()
	from := s.CreateAccount(aliceToken, "USD", 0)
	to := s.CreateAccount(bobToken, "USD", 0)

	resp := s.record(aliceToken, from, to, 5)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var tx transaction.Transaction
	s.DecodeData(resp, &tx)
	path := fmt.Sprintf("/transactions/%d", tx.ID)

	s.Equal(fiber.StatusOK, s.MakeRequest(http.MethodGet, path, "", bobToken).StatusCode)
	s.Equal(fiber.StatusForbidden, s.MakeRequest(http.MethodGet, path, "", carolToken).StatusCode)

	var txs []transaction.Transaction
	resp = s.MakeRequest(http.MethodGet, "/transactions", "", carolToken)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.DecodeData(resp, &txs)
	s.Empty(txs)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d/transactions", to), "", bobToken)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.DecodeData(resp, &txs)
	s.Len(txs, 1)

	resp = s.MakeRequest(http.MethodGet, fmt.Sprintf("/accounts/%d/transactions", to), "", carolToken)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *TransactionTestSuite) TestUpdateAndDelete_AdminOnly() {
	_, token := s.CreateTestUser()
	_, adminToken := s.CreateAdmin()
	from := s.CreateAccount(token, "USD", 0)
	to := s.CreateAccount(token, "USD", 0)
	resp := s.record(token, from, to, 5)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	var tx transaction.Transaction
	s.DecodeData(resp, &tx)
	path := fmt.Sprintf("/transactions/%d", tx.ID)

	body := map[string]any{
		"id":          tx.ID,
		"amount":      7.25,
		"currency":    "USD",
		"time":        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"sender_id":   to,
		"receiver_id": from,
	}
	resp = s.MakeJSONRequest(http.MethodPut, path, body, token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)

	resp = s.MakeJSONRequest(http.MethodPut, path, body, adminToken)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, path, "", adminToken)
	var updated transaction.Transaction
	s.DecodeData(resp, &updated)
	s.Equal(tx.Identifier, updated.Identifier)
	s.InDelta(7.25, updated.Amount, 0.001)
	s.Equal(to, updated.SenderID)

	body["id"] = tx.ID + 1
	resp = s.MakeJSONRequest(http.MethodPut, path, body, adminToken)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest(http.MethodDelete, path, "", token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
	resp = s.MakeRequest(http.MethodDelete, path, "", adminToken)
	s.Require().Equal(fiber.StatusNoContent, resp.StatusCode)
	resp = s.MakeRequest(http.MethodGet, path, "", adminToken)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)

	// the accounts are free to go now
	resp = s.MakeRequest(http.MethodDelete, fmt.Sprintf("/accounts/%d", from), "", token)
	s.Equal(fiber.StatusNoContent, resp.StatusCode)
}
