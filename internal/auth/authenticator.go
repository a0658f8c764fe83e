package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"pawclub/internal/domain"
	"pawclub/internal/repository"
)

// Authenticator is the only component allowed to turn a plaintext password
// into a decision, and the only one allowed to turn verified credentials
// into a token. It holds no per-request state.
type Authenticator struct {
	users         repository.UserRepository
	codec         *TokenCodec
	defaultAvatar string
}

func NewAuthenticator(users repository.UserRepository, codec *TokenCodec, defaultAvatar string) *Authenticator {
	return &Authenticator{
		users:         users,
		codec:         codec,
		defaultAvatar: defaultAvatar,
	}
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	AvatarURL   string
	Description string
}

// Register hashes the password and persists a new user with the default role.
// The email pre-check gives a friendly error; the store's unique constraint
// is the authoritative guard against the check-then-insert race.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if in.Name == "" {
		return nil, errors.New("name is required")
	}
	if in.Email == "" {
		return nil, errors.New("email is required")
	}
	if in.Password == "" {
		return nil, errors.New("password is required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := a.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	avatar := strings.TrimSpace(in.AvatarURL)
	if avatar == "" {
		avatar = a.defaultAvatar
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		AvatarURL:    avatar,
		Role:         domain.RoleUser,
		Description:  strings.TrimSpace(in.Description),
	}

	if _, err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Login verifies the credentials and issues a token whose claims mirror the
// user row at this instant. Unknown email and wrong password are reported
// identically.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := VerifyPassword(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.codec.Issue(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Email},
		UserID:           user.ID,
		Role:             string(user.Role),
		Name:             user.Name,
		AvatarURL:        user.AvatarURL,
	})
}

// ResolvePrincipal verifies the token and builds a Principal from its claims
// alone. The credential store is not consulted; staleness is bounded by the
// token TTL. Codec errors propagate unchanged.
func (a *Authenticator) ResolvePrincipal(tokenString string) (*Principal, error) {
	claims, err := a.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UserID:    claims.UserID,
		Email:     claims.Subject,
		Role:      domain.Role(claims.Role),
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	}, nil
}

// ChangePassword verifies the current password and persists a hash of the new
// one. A wrong current password is a user-correctable condition and returns
// (false, nil) without touching the stored hash.
func (a *Authenticator) ChangePassword(ctx context.Context, email, current, newPassword string) (bool, error) {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 8 {
		return false, errors.New("new password must be at least 8 characters")
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	if err := VerifyPassword(current, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return false, err
	}
	if err := a.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return false, err
	}
	return true, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
