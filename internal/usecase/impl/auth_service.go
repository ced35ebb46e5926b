package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// resetTokenTTL bounds how long a password reset token stays redeemable.
	resetTokenTTL = time.Hour

	// maxRefreshTokenIssueAttempts bounds the retry loop on the store's
	// uniqueness constraint. With 320 bits of entropy a second attempt is
	// already astronomically unlikely.
	maxRefreshTokenIssueAttempts = 3
)

// authService implements the AuthUsecase interface. It coordinates the
// credential verifier, the access token issuer, and the refresh token store.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	auditor          *auditor
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ActivityRepo     repository.ActivityRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		auditor:          newAuditor(params.ActivityRepo, params.Logger),
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new user account and opens its first session.
// Email uniqueness is checked before username uniqueness, so a request
// colliding on both reports the email first.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if _, err := srv.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.ErrEmailAlreadyInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}

	if _, err := srv.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, domainerrors.ErrUsernameAlreadyTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check username uniqueness")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		AvatarURL:    input.AvatarURL,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, user.ID, "register", map[string]any{"username": user.Username}, input.Meta, "user", &user.ID)

	return &usecase.AuthOutput{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies credentials and opens a new session. An unknown email and a
// wrong password fail with the identical error so the two cases cannot be
// told apart. The disabled check runs after the email lookup and before the
// password check.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	if !user.IsActive {
		return nil, domainerrors.ErrAccountDisabled
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to record last login")
	}

	accessToken, refreshToken, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.auditor.record(ctx, user.ID, "login", nil, input.Meta, "user", &user.ID)

	return &usecase.AuthOutput{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a refresh token: the presented token is revoked first and
// a fresh pair is issued. The old and new tokens are never both valid. The
// two steps are deliberately not wrapped in a transaction; a crash in
// between leaves the old token revoked and the caller must log in again.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	record, err := srv.refreshTokenRepo.FindActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenInvalid) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up token owner")
	}

	if err := srv.refreshTokenRepo.Revoke(ctx, record.Token); err != nil {
		return nil, errors.Wrap(err, "failed to revoke rotated token")
	}

	accessToken, newRefreshToken, err := srv.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &usecase.RefreshOutput{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout ends a session. A missing, unknown, or already revoked token is not
// an error; logout always succeeds.
func (srv *authService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	if input.RefreshToken != "" {
		if err := srv.refreshTokenRepo.Revoke(ctx, input.RefreshToken); err != nil {
			return errors.Wrap(err, "failed to revoke refresh token")
		}
	}

	if input.Actor != nil {
		srv.auditor.record(ctx, input.Actor.ID, "logout", nil, input.Meta, "user", &input.Actor.ID)
	}

	return nil
}

// ForgotPassword starts the reset flow. The response is identical whether or
// not the email exists, so accounts cannot be enumerated. Only the sha256 of
// the reset token is stored; the plaintext is surfaced to the caller in
// place of real email delivery.
func (srv *authService) ForgotPassword(ctx context.Context, email string) (*usecase.ForgotPasswordOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return &usecase.ForgotPasswordOutput{}, nil
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	plaintext, hash, err := srv.tokenService.NewResetToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate reset token")
	}

	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hash
	user.ResetPasswordExpires = &expires

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to store reset token")
	}

	return &usecase.ForgotPasswordOutput{ResetToken: plaintext}, nil
}

// ResetPassword redeems a reset token exactly once. On success the reset
// fields are cleared and every refresh token the user holds is revoked,
// forcing re-login everywhere.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	hash := srv.tokenService.HashResetToken(input.Token)

	user, err := srv.userRepo.FindByResetTokenHash(ctx, hash, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrResetTokenInvalid
		}

		return errors.Wrap(err, "failed to look up reset token")
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	user.PasswordHash = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewUserRepository().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		return repoFactory.NewRefreshTokenRepository().RevokeAllForUser(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	srv.auditor.record(ctx, user.ID, "reset_password", nil, input.Meta, "user", &user.ID)

	return nil
}

// ChangePassword replaces an authenticated user's password. Every refresh
// token is revoked except the one supplied in the request, keeping the
// current session alive. Without a supplied token all sessions end,
// including the caller's.
func (srv *authService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to look up user")
	}

	if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
		return domainerrors.ErrCurrentPasswordIncorrect
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	user.PasswordHash = passwordHash

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewUserRepository().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		tokenRepo := repoFactory.NewRefreshTokenRepository()
		if input.RefreshToken != "" {
			return tokenRepo.RevokeAllForUserExcept(ctx, user.ID, input.RefreshToken)
		}

		return tokenRepo.RevokeAllForUser(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	srv.auditor.record(ctx, user.ID, "change_password", nil, input.Meta, "user", &user.ID)

	return nil
}

// issueTokenPair mints an access token and persists a new refresh token.
// Creation retries on the store's uniqueness constraint with a freshly
// generated token.
func (srv *authService) issueTokenPair(ctx context.Context, user *entity.User) (string, string, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to issue access token")
	}

	expiresAt := time.Now().Add(srv.tokenService.RefreshTokenDuration())

	var lastErr error
	for range maxRefreshTokenIssueAttempts {
		tokenString, err := srv.tokenService.NewRefreshToken()
		if err != nil {
			return "", "", errors.Wrap(err, "failed to generate refresh token")
		}

		record := &entity.RefreshToken{
			Token:     tokenString,
			UserID:    user.ID,
			ExpiresAt: expiresAt,
		}

		err = srv.refreshTokenRepo.Create(ctx, record)
		if err == nil {
			return accessToken, tokenString, nil
		}
		if !errors.Is(err, repository.ErrRefreshTokenDuplicate) {
			return "", "", errors.Wrap(err, "failed to persist refresh token")
		}

		lastErr = err
	}

	return "", "", errors.Wrap(lastErr, "refresh token collisions exhausted retries")
}
