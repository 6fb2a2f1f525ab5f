// Package auth registers users, verifies credentials and issues and checks
// the bearer tokens that identify callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod is the only algorithm accepted for bearer tokens.
var SigningMethod = jwt.SigningMethodHS512

// Claims is the token payload. The user id travels as a decimal string.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the caller carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == user.RoleAdmin
}

// CanAccess reports whether the caller is the owner or an admin.
func (i *Identity) CanAccess(ownerID uint) bool {
	return i.IsAdmin() || (i != nil && i.UserID == ownerID)
}

type Service struct {
	uow        repository.UnitOfWork
	jwt        *config.Jwt
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func New(
	uow repository.UnitOfWork,
	cfg *config.Auth,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:        uow,
		jwt:        cfg.Jwt,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for token timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HashPassword hashes a password at the configured cost.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return hash, nil
}

// Register creates a user with role "user". A username that already exists
// (exact, case-sensitive match) yields domain.ErrUsernameTaken.
func (s *Service) Register(
	ctx context.Context,
	req dto.RegisterRequest,
) (*user.User, error) {
	log := s.logger.With("context", "Register", "username", req.Username)
	log.Debug("Register called")

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := user.New(req.Username, hash, user.Profile{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Email:      req.Email,
	}, user.RoleUser)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		taken, err := repo.ExistsByUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}
		if err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		log.Warn("Register failed", "error", err)
		return nil, err
	}
	log.Info("User registered", "userID", u.ID)
	return u, nil
}

// Verify checks a username and password. Unknown usernames and wrong
// passwords both return domain.ErrInvalidCredentials after one bcrypt
// comparison each.
func (s *Service) Verify(
	ctx context.Context,
	username, password string,
) (*user.User, error) {
	log := s.logger.With("context", "Verify", "username", username)
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("Verify failed", "error", err)
			return nil, err
		}
		_ = utils.CheckPasswordHash(password, s.dummy())
		log.Info("Login failed")
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		log.Info("Login failed")
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("dummy-password", s.bcryptCost)
	})
	return s.dummyHash
}

// Login verifies the credentials and issues a token for the user.
func (s *Service) Login(
	ctx context.Context,
	username, password string,
) (string, *user.User, error) {
	u, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// IssueToken signs an HS512 token carrying the user's id and role.
func (s *Service) IssueToken(u *user.User) (string, error) {
	log := s.logger.With("userID", u.ID)
	now := s.now().UTC()
	claims := Claims{
		UserID: strconv.FormatUint(uint64(u.ID), 10),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			Audience:  jwt.ClaimStrings{s.jwt.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiry)),
		},
	}
	token, err := jwt.NewWithClaims(SigningMethod, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		log.Error("IssueToken failed", "error", err)
		return "", err
	}
	log.Debug("Token issued")
	return token, nil
}

// KeyFunc returns the HMAC key after checking the token's algorithm.
func (s *Service) KeyFunc() jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != SigningMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.jwt.Secret), nil
	}
}

func (s *Service) parserOptions() []jwt.ParserOption {
	return []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethod.Alg()}),
		jwt.WithIssuer(s.jwt.Issuer),
		jwt.WithAudience(s.jwt.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
}

// VerifyToken parses and validates a compact token. Every failure is
// reported as domain.ErrUnauthorized.
func (s *Service) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.KeyFunc(), s.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return s.IdentityFromToken(token)
}

// IdentityFromToken validates the registered claims of an already parsed
// token and extracts the caller.
func (s *Service) IdentityFromToken(token *jwt.Token) (*Identity, error) {
	if token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", domain.ErrUnauthorized, token.Claims)
	}
	if err := jwt.NewValidator(s.parserOptions()...).Validate(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad id claim", domain.ErrUnauthorized)
	}
	if !user.ValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: bad role claim", domain.ErrUnauthorized)
	}
	return &Identity{UserID: uint(id), Role: claims.Role}, nil
}
