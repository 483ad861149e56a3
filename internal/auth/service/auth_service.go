package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"github.com/freelance-market/market-backend/internal/auth"
	"github.com/freelance-market/market-backend/internal/events"
	"github.com/freelance-market/market-backend/internal/users/domain"
	"github.com/freelance-market/market-backend/internal/users/repository"
)

// ErrInvalidCredentials is returned on bad email/password pairs.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidCode is returned when the verification code does not match.
var ErrInvalidCode = errors.New("invalid verification code")

// Mailer is the slice of the email sender the auth flow needs.
type Mailer interface {
	SendVerificationEmail(to, firstName, code string) error
	SendWelcomeEmail(to, firstName string) error
}

// Publisher is the slice of the event bus the auth flow needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev events.Event) error
}

// AuthService handles registration, login and email verification
type AuthService struct {
	users  *repository.UserRepository
	issuer *auth.TokenIssuer
	mailer Mailer
	bus    Publisher
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, issuer *auth.TokenIssuer, mailer Mailer, bus Publisher) *AuthService {
	return &AuthService{users: users, issuer: issuer, mailer: mailer, bus: bus}
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// RegisterInput carries the registration fields.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       domain.Role
	Bio        *string
	Skills     []string
	HourlyRate *float64
}

// Register creates the user with a hashed password, emails a verification
// code and returns a signed token. The verification email is best effort.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code := newVerificationCode()
	user, err := s.users.Create(ctx, &domain.User{
		Email:            in.Email,
		PasswordHash:     string(hash),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Role:             in.Role,
		Bio:              in.Bio,
		Skills:           in.Skills,
		HourlyRate:       in.HourlyRate,
		VerificationCode: &code,
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, code); err != nil {
			log.Printf("[auth] verification email for %s failed: %v", user.Email, err)
		}
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publishActivity(ctx, "USER_REGISTERED", user)

	return &AuthResult{AccessToken: token, User: user}, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publishActivity(ctx, "USER_LOGGED_IN", user)

	return &AuthResult{AccessToken: token, User: user}, nil
}

// VerifyEmail checks the code and marks the account verified. The welcome
// email is best effort.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return ErrInvalidCode
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			log.Printf("[auth] welcome email for %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// ResendVerification issues a fresh code and re-sends the verification email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	code := newVerificationCode()
	if err := s.users.SetVerificationCode(ctx, user.ID, code); err != nil {
		return err
	}

	if s.mailer == nil {
		return nil
	}
	return s.mailer.SendVerificationEmail(user.Email, user.FirstName, code)
}

func (s *AuthService) publishActivity(ctx context.Context, kind string, user *domain.User) {
	if s.bus == nil {
		return
	}
	ev, err := events.NewEvent(kind, map[string]string{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
	})
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, events.TopicUserActivity, ev); err != nil {
		log.Printf("[auth] user activity publish failed: %v", err)
	}
}

// newVerificationCode returns a 6 digit numeric code.
func newVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
