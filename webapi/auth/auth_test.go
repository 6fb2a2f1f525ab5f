package auth_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/bank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	testutils.E2ETestSuite
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

func (s *AuthTestSuite) TestRegister_Success() {
	u := s.RegisterUser("alice")
	s.NotZero(u.ID)
	s.Equal("alice", u.Username)
	s.Equal("user", u.Role)
}

func (s *AuthTestSuite) TestRegister_IgnoresRequestedRole() {
	resp := s.MakeRequest(http.MethodPost, "/register", `{"username":"mallory","password":"password123","first_name":"M","last_name":"X","national_id":"N1","email":"m@example.com","role":"admin"}`, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var data map[string]any
	s.DecodeData(resp, &data)
	s.Equal("user", data["role"])
	s.NotContains(data, "password")
}

func (s *AuthTestSuite) TestRegister_DuplicateUsername() {
	s.RegisterUser("alice")
	resp := s.MakeRequest(http.MethodPost, "/register", `{"username":"alice","password":"password123","first_name":"A","last_name":"B","national_id":"N2","email":"other@example.com"}`, "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AuthTestSuite) TestRegister_ValidationError() {
	resp := s.MakeRequest(http.MethodPost, "/register", `{"username":"al","password":"x"}`, "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	pd := s.DecodeProblem(resp)
	s.NotEmpty(pd.Errors)
}

func (s *AuthTestSuite) TestLoginRoute_BadRequest() {
	resp := s.MakeRequest(http.MethodPost, "/login", `{"username":123}`, "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *AuthTestSuite) TestLoginRoute_Success() {
	s.RegisterUser("alice")
	token := s.LoginUser("alice")
	s.NotEmpty(token)
}

func (s *AuthTestSuite) TestLoginRoute_UniformFailure() {
	s.RegisterUser("alice")

	wrongPassword := s.MakeRequest(http.MethodPost, "/login", `{"username":"alice","password":"wrongpassword"}`, "")
	s.Equal(fiber.StatusBadRequest, wrongPassword.StatusCode)
	first := s.DecodeProblem(wrongPassword)

	unknownUser := s.MakeRequest(http.MethodPost, "/login", `{"username":"nobody","password":"wrongpassword"}`, "")
	s.Equal(fiber.StatusBadRequest, unknownUser.StatusCode)
	second := s.DecodeProblem(unknownUser)

	s.Equal(first, second)
	s.Equal("Username or password is incorrect", first.Detail)
}
