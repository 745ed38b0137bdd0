package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	maxHandleLength      = 64
	randomHandleAttempts = 20
	minPasswordLength    = 4
)

var (
	handleAdjectives = []string{"brave", "quick", "clever", "mighty", "gentle", "shiny", "happy", "free", "bold", "steady", "calm", "bright", "quiet", "swift", "warm", "graceful", "nimble", "keen", "lucky", "jolly"}
	handleAnimals    = []string{"lion", "tiger", "eagle", "shark", "wolf", "dolphin", "elephant", "penguin", "fox", "bear", "owl", "monkey", "deer", "crocodile", "whale", "otter", "magpie", "peacock", "rooster", "duck"}
)

type RegisterInput struct {
	Name                string
	Handle              string
	Role                domain.Role
	InstitutionalNumber string
	Password            string
}

type Claims struct {
	Role      domain.Role `json:"role"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

type AuthService struct {
	principals repository.PrincipalRepository
	revoked    repository.RevocationList
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewAuthService(
	principals repository.PrincipalRepository,
	revoked repository.RevocationList,
	secret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	log *slog.Logger,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		principals: principals,
		revoked:    revoked,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.TokenPair, error) {
	const op = "service.auth.register"
	log := s.log.With(slog.String("op", op), slog.String("role", string(in.Role)))

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrBadRequest)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be student or professor", domain.ErrBadRequest)
	}
	if strings.TrimSpace(in.InstitutionalNumber) == "" {
		return nil, fmt.Errorf("%w: institutional number is required", domain.ErrBadRequest)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password is too short", domain.ErrBadRequest)
	}

	handle := strings.TrimSpace(in.Handle)
	if handle == "" {
		generated, err := s.RandomHandle(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		handle = generated
	} else if err := validateHandle(handle); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	principal := &domain.Principal{
		Name:                strings.TrimSpace(in.Name),
		Handle:              handle,
		PasswordHash:        string(hash),
		Role:                in.Role,
		InstitutionalNumber: strings.TrimSpace(in.InstitutionalNumber),
	}
	if err := s.principals.Create(ctx, principal); err != nil {
		log.Info("failed to create principal", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("principal registered", slog.Uint64("user_id", uint64(principal.ID)))
	return s.issueTokens(principal.ID, principal.Role)
}

func (s *AuthService) Login(ctx context.Context, institutionalNumber string, password string) (*domain.TokenPair, error) {
	const op = "service.auth.login"
	log := s.log.With(slog.String("op", op))

	principal, err := s.principals.GetByInstitutionalNumber(ctx, institutionalNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)); err != nil {
		log.Info("password mismatch", slog.Uint64("user_id", uint64(principal.ID)))
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	return s.issueTokens(principal.ID, principal.Role)
}

// Logout revokes both tokens until their own expiry. Only tokens this
// service signed are accepted, so the revocation list never holds more than
// the live tokens.
func (s *AuthService) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	const op = "service.auth.logout"
	log := s.log.With(slog.String("op", op))

	if accessToken == "" {
		return fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	access, err := s.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return err
	}
	var refresh *Claims
	if refreshToken != "" {
		if refresh, err = s.parse(refreshToken, tokenTypeRefresh); err != nil {
			return err
		}
		if refresh.Subject != access.Subject {
			return fmt.Errorf("%w: tokens belong to different users", domain.ErrUnauthorized)
		}
	}

	s.revoked.Revoke(accessToken, access.ExpiresAt.Time)
	if refresh != nil {
		s.revoked.Revoke(refreshToken, refresh.ExpiresAt.Time)
	}

	log.Debug("tokens revoked", slog.String("user_id", access.Subject))
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	const op = "service.auth.refresh"

	if s.revoked.IsRevoked(refreshToken) {
		return nil, fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthorized)
	}
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	id, err := claimsUserID(claims)
	if err != nil {
		return nil, err
	}

	principal, err := s.principals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokens(principal.ID, principal.Role)
}

// Authenticate resolves an access token to its principal. Every failure is
// reported as the same unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	const op = "service.auth.authenticate"

	if token == "" || s.revoked.IsRevoked(token) {
		return nil, domain.ErrUnauthorized
	}
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	id, err := claimsUserID(claims)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	principal, err := s.principals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		s.log.Error("failed to load principal", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return principal, nil
}

func (s *AuthService) RenameHandle(ctx context.Context, principalID uint, handle string) error {
	const op = "service.auth.renameHandle"

	handle = strings.TrimSpace(handle)
	if err := validateHandle(handle); err != nil {
		return err
	}

	principal, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if principal.Handle == handle {
		return nil
	}

	exists, err := s.principals.HandleExists(ctx, handle)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return repository.ErrHandleTaken
	}

	if err := s.principals.UpdateHandle(ctx, principalID, handle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, principalID uint) error {
	const op = "service.auth.deleteAccount"
	log := s.log.With(slog.String("op", op), slog.Uint64("user_id", uint64(principalID)))

	if err := s.principals.Delete(ctx, principalID); err != nil {
		log.Info("failed to delete account", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("account deleted")
	return nil
}

// RandomHandle builds an adjective-animal-number handle that is not taken yet.
func (s *AuthService) RandomHandle(ctx context.Context) (string, error) {
	const op = "service.auth.randomHandle"

	for range randomHandleAttempts {
		handle := handleAdjectives[rand.IntN(len(handleAdjectives))] +
			handleAnimals[rand.IntN(len(handleAnimals))] +
			strconv.Itoa(rand.IntN(100000))

		exists, err := s.principals.HandleExists(ctx, handle)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return handle, nil
		}
	}
	return "", fmt.Errorf("%s: could not find a free handle", op)
}

func (s *AuthService) issueTokens(userID uint, role domain.Role) (*domain.TokenPair, error) {
	access, err := s.sign(userID, role, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, role, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh, Role: role}, nil
}

func (s *AuthService) sign(userID uint, role domain.Role, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parse(token string, tokenType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: wrong token type", domain.ErrUnauthorized)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: token has no expiry", domain.ErrUnauthorized)
	}
	return claims, nil
}

func claimsUserID(claims *Claims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	return uint(id), nil
}

func validateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("%w: handle is required", domain.ErrBadRequest)
	}
	if utf8.RuneCountInString(handle) > maxHandleLength {
		return fmt.Errorf("%w: handle is too long", domain.ErrBadRequest)
	}
	return nil
}
