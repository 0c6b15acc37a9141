package service

import (
	"codeflex/fitness-api/internal/auth"
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/events"
	"codeflex/fitness-api/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Session is a signed token and the instant it stops being accepted.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, name, email, password, phone string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (Session, *domain.User, error)
	IssueSession(user *domain.User) (Session, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	AuthorizeAdmin(user *domain.User) error
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   *auth.SessionIssuer
	publisher  events.Publisher
	bcryptCost int

	// dummyHash is compared on unknown emails so both login failures cost
	// one bcrypt comparison.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

// NewAuthService creates a new instance of authService. bcryptCost <= 0
// selects bcrypt.DefaultCost.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionIssuer, publisher events.Publisher, bcryptCost int) AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("codeflex-unknown-account"), bcryptCost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt cost %d: %v", bcryptCost, err))
	}
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

// Register creates a user with a normalized email and a bcrypt hash of the
// password. The returned user never carries the hash.
func (s *authService) Register(ctx context.Context, name, email, password, phone string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	_, err := s.userRepo.GetByEmail(ctx, email, false)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.RoutingUserRegistered, events.UserRegistered{
		UserID: user.ID,
		Email:  user.Email,
	}); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("publish user.registered failed")
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error.
func (s *authService) Login(ctx context.Context, email, password string) (Session, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.compare(s.dummyHash, []byte(password))
			return Session{}, nil, ErrInvalidCredentials
		}
		return Session{}, nil, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, nil, ErrInvalidCredentials
	}
	user.PasswordHash = ""

	session, err := s.IssueSession(user)
	if err != nil {
		return Session{}, nil, err
	}
	return session, user, nil
}

func (s *authService) IssueSession(user *domain.User) (Session, error) {
	token, expiresAt, err := s.sessions.Issue(user.ID.Hex())
	if err != nil {
		return Session{}, ErrTokenGeneration
	}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	userID, err := s.sessions.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user, nil
}

func (s *authService) AuthorizeAdmin(user *domain.User) error {
	if user == nil || !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
