package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

const avatarKeyPrefix = "avatars/"

// Auth implements the credential lifecycle: registration, login, password
// change and profile maintenance.
type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenCodec
	storage   model.Storage
	logger    *logger.Logger
	now       func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

// NewAuth creates the Auth service.
func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenCodec,
	storage model.Storage,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (a *Auth) SetClock(now func() time.Time) {
	a.now = now
}

// Register creates a user and opens a session for it.
func (a *Auth) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	email := normalizeEmail(reg.Email)
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: email already registered",
			"email", email)
		return model.Session{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	role := reg.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return model.Session{}, fmt.Errorf("%w: %q", model.ErrInvalidRole, role)
	}

	hash, err := a.hasher.Hash(reg.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return model.Session{}, err
	}
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(reg.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		a.logger.Info("Auth service: email registered concurrently",
			"email", email)
		return model.Session{}, model.ErrDuplicateEmail
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"role", user.Role)

	return a.openSession(user, now)
}

// Login exchanges email and password for a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.Verify(password, a.decoy())
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.Session{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		a.logger.Info("Auth service: login to deactivated account",
			"user_id", user.ID)
		return model.Session{}, model.ErrAccountDeactivated
	}

	now := a.now()
	user.LastLoginAt = &now
	saved, err := a.userStore.Save(ctx, user)
	if err != nil {
		a.logger.Warn("Auth service: failed to record last login",
			"user_id", user.ID,
			"error", err.Error())
	} else {
		user = saved
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return a.openSession(user, now)
}

// ChangePassword replaces the user's password after verifying the current
// one. Every token issued before the change becomes stale; the returned
// session carries a fresh token.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (model.Session, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return model.Session{}, err
	}

	if !a.hasher.Verify(current, user.PasswordHash) {
		a.logger.Info("Auth service: current password mismatch",
			"user_id", user.ID)
		return model.Session{}, model.ErrCurrentPasswordIncorrect
	}

	hash, err := a.hasher.Hash(next)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return model.Session{}, err
	}
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// Token timestamps have whole second resolution. Truncating keeps the
	// token issued below valid and rejects every token from earlier seconds.
	now := a.now()
	changedAt := now.Truncate(time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt

	user, err = a.userStore.Save(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to save password",
			"user_id", userID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to save user: %w", err)
	}

	a.logger.Info("Auth service: password changed",
		"user_id", user.ID)

	return a.openSession(user, now)
}

// Me returns the current profile of a user.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the non-nil fields of upd.
func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, upd model.ProfileUpdate) (model.User, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if upd.FullName != nil {
		user.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Bio != nil {
		user.Bio = strings.TrimSpace(*upd.Bio)
	}

	user, err = a.userStore.Save(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user.Public(), nil
}

// SetActive activates or deactivates an account. Deactivation takes effect on
// the next authenticated request of that user.
func (a *Auth) SetActive(ctx context.Context, userID uuid.UUID, active bool) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	user.IsActive = active
	user, err = a.userStore.Save(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	a.logger.Info("Auth service: account status changed",
		"user_id", user.ID,
		"active", active)

	return user.Public(), nil
}

// UploadAvatar stores a new avatar image and links it to the user.
func (a *Auth) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, size int64, contentType string) (model.User, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	key := avatarKeyPrefix + user.ID.String()
	if err := a.storage.Upload(ctx, key, r, size, contentType); err != nil {
		a.logger.Error("Auth service: failed to upload avatar",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user.Avatar = key
	user, err = a.userStore.Save(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return user.Public(), nil
}

// Avatar opens the user's avatar image. ErrNotFound means no avatar was uploaded.
func (a *Auth) Avatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	user, err := a.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Avatar == "" {
		return nil, model.ErrNotFound
	}

	rc, err := a.storage.Download(ctx, user.Avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to download avatar: %w", err)
	}
	return rc, nil
}

func (a *Auth) getUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (a *Auth) openSession(user model.User, issuedAt time.Time) (model.Session, error) {
	token, err := a.tokens.Issue(user.ID, issuedAt)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return model.Session{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: issuedAt.Truncate(time.Second).Add(a.tokens.TTL()),
	}, nil
}

// decoy returns a hash to verify against when the email is unknown, so that
// both login failures cost the same.
func (a *Auth) decoy() string {
	a.decoyOnce.Do(func() {
		hash, err := a.hasher.Hash(uuid.NewString())
		if err != nil {
			a.logger.Warn("Auth service: failed to prepare decoy hash",
				"error", err.Error())
			return
		}
		a.decoyHash = hash
	})
	return a.decoyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
