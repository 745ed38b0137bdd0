package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.InMemoryRevocationList) {
	t.Helper()
	db := testutil.NewDB(t)
	revoked := repository.NewInMemoryRevocationList()
	svc := NewAuthService(repository.NewGormPrincipalRepository(db), revoked, "secret", time.Hour, 7*24*time.Hour, testutil.Logger())
	return svc, revoked
}

func registerInput(role domain.Role, number string) RegisterInput {
	return RegisterInput{Name: "Kim", Role: role, InstitutionalNumber: number, Password: "pass1234"}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	in := registerInput(domain.RoleStudent, "2024001")
	in.Handle = "kim"
	tokens, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, tokens.Role)

	principal, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "kim", principal.Handle)
	assert.Equal(t, domain.RoleStudent, principal.Role)

	_, err = svc.Login(ctx, "2024001", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(ctx, "missing", "pass1234")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	again, err := svc.Login(ctx, "2024001", "pass1234")
	require.NoError(t, err)
	assert.NotEmpty(t, again.RefreshToken)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	first := registerInput(domain.RoleProfessor, "P-1")
	first.Handle = "prof"
	_, err := svc.Register(ctx, first)
	require.NoError(t, err)

	sameNumber := registerInput(domain.RoleProfessor, "P-1")
	_, err = svc.Register(ctx, sameNumber)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	sameHandle := registerInput(domain.RoleStudent, "S-1")
	sameHandle.Handle = "prof"
	_, err = svc.Register(ctx, sameHandle)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestRegisterValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{name: "no name", mutate: func(in *RegisterInput) { in.Name = " " }},
		{name: "bad role", mutate: func(in *RegisterInput) { in.Role = "admin" }},
		{name: "no number", mutate: func(in *RegisterInput) { in.InstitutionalNumber = "" }},
		{name: "short password", mutate: func(in *RegisterInput) { in.Password = "123" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registerInput(domain.RoleStudent, "S-9")
			tt.mutate(&in)
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	ctx := context.Background()
	svc, revoked := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-2"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.AccessToken, tokens.RefreshToken))
	assert.Equal(t, 2, revoked.Len())

	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogoutRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	svc, revoked := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-9"))
	require.NoError(t, err)
	other, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-10"))
	require.NoError(t, err)

	forged := func(typ string) string {
		claims := Claims{
			TokenType: typ,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().AddDate(100, 0, 0)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong key"))
		require.NoError(t, err)
		return token
	}

	for range 50 {
		err = svc.Logout(ctx, forged(tokenTypeAccess), "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.ErrorIs(t, svc.Logout(ctx, "not-a-token", ""), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, tokens.AccessToken, forged(tokenTypeRefresh)), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, tokens.RefreshToken, ""), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, tokens.AccessToken, tokens.AccessToken), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Logout(ctx, tokens.AccessToken, other.RefreshToken), domain.ErrUnauthorized)
	assert.Zero(t, revoked.Len())

	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleProfessor, "P-2"))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProfessor, fresh.Role)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-3"))
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRenameHandle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	a := registerInput(domain.RoleStudent, "S-4")
	a.Handle = "alpha"
	tokens, err := svc.Register(ctx, a)
	require.NoError(t, err)
	b := registerInput(domain.RoleStudent, "S-5")
	b.Handle = "beta"
	_, err = svc.Register(ctx, b)
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)

	err = svc.RenameHandle(ctx, principal.ID, "beta")
	assert.True(t, errors.Is(err, repository.ErrHandleTaken))

	require.NoError(t, svc.RenameHandle(ctx, principal.ID, "gamma"))
	principal, err = svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "gamma", principal.Handle)

	require.NoError(t, svc.RenameHandle(ctx, principal.ID, " gamma "))
	principal, err = svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "gamma", principal.Handle)
}

func TestDeleteAccountInvalidatesTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-6"))
	require.NoError(t, err)
	principal, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, principal.ID))

	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRandomHandleIsGeneratedOnRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	tokens, err := svc.Register(ctx, registerInput(domain.RoleStudent, "S-7"))
	require.NoError(t, err)
	principal, err := svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, principal.Handle)
}
