package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/auth"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/repository"
	"github.com/stablemate/stablemate/internal/session"
)

// Service implements registration, login and the user-profile editor.
// Credentials are bcrypt-hashed at rest; login failures are uniform so
// a caller cannot distinguish an unknown username from a wrong
// password.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	sessions *session.Store
}

func NewService(appCtx *app.AppContext, sessions *session.Store) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		sessions: sessions,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type UpdateProfileInput struct {
	FullName     *string
	Email        *string
	Location     *string
	Bio          *string
	ProfileImage *string
}

// AuthResult is a successful login/registration: the sanitized user
// record plus the bearer token for subsequent requests.
type AuthResult struct {
	User  *db.User
	Token string
}

// Register creates an account and opens a session for it.
//
// Behavior:
//   - Validates required fields and minimum password length.
//   - Stores only the bcrypt hash of the password.
//   - A taken username or email surfaces as ErrUsernameTaken without
//     altering the existing record.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	switch {
	case username == "":
		return nil, svcErr.InvalidArgument("username is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, svcErr.InvalidArgument("a valid email is required")
	case len(in.Password) < auth.MinPasswordLength:
		return nil, svcErr.InvalidArgument("password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.appCtx.Logger.Warn("registration rejected", "username", username, "err", err)
		return nil, err
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
//
// Unknown username and wrong password both return
// ErrInvalidCredentials; the bcrypt comparison runs either way so the
// two cases take comparable time.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn a comparison against a throwaway hash
			auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOa3a1OSJZKXl0aQ5sVtJ1G9yqfBDeIhW", password)
			return nil, svcErr.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.appCtx.Logger.Debug("login failed", "username", username)
		return nil, svcErr.ErrInvalidCredentials
	}

	s.appCtx.Logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	return s.openSession(ctx, user)
}

// Logout revokes the session; the token stops resolving immediately.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// Me returns the caller's own account record.
func (s *Service) Me(ctx context.Context, userID uint64) (*db.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile edits the caller's own descriptive fields and
// refreshes the session snapshot so later requests see the new values.
func (s *Service) UpdateProfile(ctx context.Context, userID uint64, sessionID string, in UpdateProfileInput) (*db.User, error) {
	patch := map[string]any{}
	if in.FullName != nil {
		patch["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, svcErr.InvalidArgument("a valid email is required")
		}
		patch["email"] = email
	}
	if in.Location != nil {
		patch["location"] = strings.TrimSpace(*in.Location)
	}
	if in.Bio != nil {
		patch["bio"] = *in.Bio
	}
	if in.ProfileImage != nil {
		patch["profile_image"] = strings.TrimSpace(*in.ProfileImage)
	}
	if len(patch) == 0 {
		return nil, svcErr.InvalidArgument("no fields to update")
	}

	if err := s.users.UpdateProfile(ctx, userID, patch); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		if err := s.sessions.Refresh(ctx, sessionID, identityOf(user)); err != nil {
			s.appCtx.Logger.Warn("session refresh failed", "user_id", userID, "err", err)
		}
	}

	return user, nil
}

func (s *Service) openSession(ctx context.Context, user *db.User) (*AuthResult, error) {
	token, _, err := s.sessions.Create(ctx, identityOf(user))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func identityOf(user *db.User) session.Identity {
	return session.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
}
