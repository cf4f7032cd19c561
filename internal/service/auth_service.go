package service

import (
	"context"
	"strings"
	"unicode"

	"friendlyvoice/internal/config"
	"friendlyvoice/internal/models"
	"friendlyvoice/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService implements login and signup flows. Sessions themselves are
// stateless JWTs minted by the handler layer; this service only resolves and
// creates identities.
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// AuthResult is a resolved identity plus the onboarding routing flag.
type AuthResult struct {
	User *models.User
	// Onboarding is true when the user has no generated avatar or no audio
	// biography yet; clients route such users through onboarding.
	Onboarding bool
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Login resolves the user for the email, creating a fresh account when none
// exists. An account with a password hash requires the matching password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = newUserForEmail(email, nameFromEmail(email), password)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if user.Password != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
	}

	return &AuthResult{User: user, Onboarding: user.NeedsOnboarding()}, nil
}

// Signup registers a new account. When the email is already taken the
// configured policy decides: reject with a conflict, or return the existing
// identity (always the same ID, never a duplicate).
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if s.cfg.SignupExistingEmail == config.SignupExistingReject {
			return nil, models.NewConflictError("An account with this email already exists")
		}
		if existing.Password != "" {
			if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(password)) != nil {
				return nil, models.NewUnauthorizedError("Invalid credentials")
			}
		}
		return &AuthResult{User: existing, Onboarding: existing.NeedsOnboarding()}, nil
	}

	user := newUserForEmail(email, name, password)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Onboarding: true}, nil
}

func newUserForEmail(email, name, password string) *models.User {
	user := &models.User{
		Name:            name,
		Email:           email,
		AvatarURL:       models.PlaceholderAvatarURL(email),
		Interests:       models.StringList{},
		PersonalityTags: models.StringList{},
	}
	if password != "" {
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			user.Password = string(hash)
		}
	}
	return user
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("Email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}

// nameFromEmail derives a display name from the email local part:
// "ana.perez@x" becomes "Ana Perez".
func nameFromEmail(email string) string {
	local := email[:strings.Index(email, "@")]
	local = strings.Map(func(r rune) rune {
		if r == '.' || r == '_' || r == '-' || r == '+' {
			return ' '
		}
		return r
	}, local)

	words := strings.Fields(local)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return local
	}
	return strings.Join(words, " ")
}
