package impl

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service      usecase.AuthUsecase
	userRepo     *memUserRepo
	tokenRepo    *memRefreshTokenRepo
	activityRepo *memActivityRepo
}

func newAuthFixture() *authFixture {
	userRepo := newMemUserRepo()
	tokenRepo := newMemRefreshTokenRepo()
	activityRepo := newMemActivityRepo()

	factory := &memRepoFactory{
		userRepo:         userRepo,
		refreshTokenRepo: tokenRepo,
		activityRepo:     activityRepo,
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager:        &memTxManager{factory: factory},
		UserRepo:         userRepo,
		RefreshTokenRepo: tokenRepo,
		ActivityRepo:     activityRepo,
		Hasher:           fakeHasher{},
		TokenService:     &fakeTokenService{},
		Logger:           testLogger(),
	})

	return &authFixture{
		service:      svc,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		activityRepo: activityRepo,
	}
}

func (f *authFixture) register(t *testing.T, username, email, password string) *usecase.AuthOutput {
	t.Helper()

	output, err := f.service.Register(context.Background(), usecase.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return output
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	f := newAuthFixture()

	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	require.NotNil(t, output.User)
	assert.NotEqual(t, "s3cretpass", output.User.PasswordHash)
	assert.True(t, fakeHasher{}.Check("s3cretpass", output.User.PasswordHash))
	assert.Equal(t, entity.RoleUser, output.User.Role)
	assert.True(t, output.User.IsActive)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "s3cretpass")

	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "otherpass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyInUse)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "s3cretpass")

	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "otherpass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUsernameAlreadyTaken)
}

func TestRegisterEmailCheckedBeforeUsername(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "s3cretpass")

	// Colliding on both fields reports the email conflict.
	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "otherpass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyInUse)
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "s3cretpass")

	output, err := f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)

	stored, err := f.userRepo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "alice", "alice@example.com", "s3cretpass")

	_, unknownErr := f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "s3cretpass",
	})
	_, wrongErr := f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpass1",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAuthFixture()
	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	user := output.User
	user.IsActive = false
	require.NoError(t, f.userRepo.Update(context.Background(), user))

	// The disabled check precedes the password check, so even the wrong
	// password reports the disabled account.
	_, err := f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()
	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	rotated, err := f.service.Refresh(context.Background(), output.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, output.RefreshToken, rotated.RefreshToken)

	// The rotated-out token can never be replayed.
	_, err = f.service.Refresh(context.Background(), output.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// The replacement still works.
	_, err = f.service.Refresh(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newAuthFixture()
	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	f.tokenRepo.mu.Lock()
	f.tokenRepo.tokens[output.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
	f.tokenRepo.mu.Unlock()

	_, err := f.service.Refresh(context.Background(), output.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture()
	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	input := usecase.LogoutInput{RefreshToken: output.RefreshToken}
	require.NoError(t, f.service.Logout(context.Background(), input))

	// Logged-out token no longer refreshes.
	_, err := f.service.Refresh(context.Background(), output.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// Revoking again, revoking garbage, and revoking nothing all succeed.
	assert.NoError(t, f.service.Logout(context.Background(), input))
	assert.NoError(t, f.service.Logout(context.Background(), usecase.LogoutInput{RefreshToken: "never-issued"}))
	assert.NoError(t, f.service.Logout(context.Background(), usecase.LogoutInput{}))
}

func TestForgotPasswordUnknownEmailRevealsNothing(t *testing.T) {
	f := newAuthFixture()

	output, err := f.service.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, output.ResetToken)
}

func TestForgotPasswordStoresHashOnly(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	output, err := f.service.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, output.ResetToken)

	stored, err := f.userRepo.FindByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, output.ResetToken, stored.ResetPasswordToken)
	assert.Equal(t, (&fakeTokenService{}).HashResetToken(output.ResetToken), stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpires)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetPasswordExpires, time.Minute)
}

func TestResetPasswordIsSingleUseAndRevokesSessions(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	forgot, err := f.service.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)

	err = f.service.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:       forgot.ResetToken,
		NewPassword: "brandnewpass",
	})
	require.NoError(t, err)

	// All sessions are gone and the old password no longer works.
	assert.Zero(t, f.tokenRepo.activeCount(registered.User.ID))
	_, err = f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "brandnewpass",
	})
	assert.NoError(t, err)

	// Second redemption of the same token fails.
	err = f.service.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:       forgot.ResetToken,
		NewPassword: "anotherpass1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	forgot, err := f.service.ForgotPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)

	stored, err := f.userRepo.FindByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	stored.ResetPasswordExpires = &expired
	require.NoError(t, f.userRepo.Update(context.Background(), stored))

	err = f.service.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:       forgot.ResetToken,
		NewPassword: "brandnewpass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestChangePasswordSparesSuppliedToken(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	second, err := f.service.Login(context.Background(), usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		UserID:          registered.User.ID,
		CurrentPassword: "s3cretpass",
		NewPassword:     "brandnewpass",
		RefreshToken:    second.RefreshToken,
	})
	require.NoError(t, err)

	// The supplied session survives; the other one is revoked.
	_, err = f.service.Refresh(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	_, err = f.service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestChangePasswordWithoutTokenEndsAllSessions(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	err := f.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		UserID:          registered.User.ID,
		CurrentPassword: "s3cretpass",
		NewPassword:     "brandnewpass",
	})
	require.NoError(t, err)

	assert.Zero(t, f.tokenRepo.activeCount(registered.User.ID))
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	f := newAuthFixture()
	registered := f.register(t, "alice", "alice@example.com", "s3cretpass")

	err := f.service.ChangePassword(context.Background(), usecase.ChangePasswordInput{
		UserID:          registered.User.ID,
		CurrentPassword: "wrongpass1",
		NewPassword:     "brandnewpass",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCurrentPasswordIncorrect)

	// Sessions stay alive after a failed attempt.
	_, err = f.service.Refresh(context.Background(), registered.RefreshToken)
	assert.NoError(t, err)
}

func TestIssueTokenPairRetriesOnCollision(t *testing.T) {
	f := newAuthFixture()
	f.tokenRepo.duplicateNext = 2

	output := f.register(t, "alice", "alice@example.com", "s3cretpass")
	assert.NotEmpty(t, output.RefreshToken)
}

func TestIssueTokenPairExhaustsRetries(t *testing.T) {
	f := newAuthFixture()
	f.tokenRepo.duplicateNext = 3

	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})
	assert.Error(t, err)
}

func TestAuthActionsAreAudited(t *testing.T) {
	f := newAuthFixture()
	output := f.register(t, "alice", "alice@example.com", "s3cretpass")

	assert.Eventually(t, func() bool {
		actions := f.activityRepo.actions(output.User.ID)
		for _, action := range actions {
			if action == "register" {
				return true
			}
		}

		return false
	}, time.Second, 10*time.Millisecond)
}
