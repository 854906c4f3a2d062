package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	verifier       domain.TokenVerifier
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService. emailService may be nil to skip welcome emails.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		issuer:         issuer,
		verifier:       verifier,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *authService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if email != "" && !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateUsername
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(username, email, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil && user.Email != "" {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Username: user.Username}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			metrics.EmailsFailed.WithLabelValues(templateWelcome).Inc()
			s.logger.WarnContext(ctx, "welcome email not sent", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.issuer.IssueAccess(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefresh(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID, err := s.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	// The user may have been removed since the refresh token was issued.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	access, err := s.issuer.IssueAccess(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
