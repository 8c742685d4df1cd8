package service

import (
	"atlas/fitness-backend/internal/domain"
	"atlas/fitness-backend/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidGoogleToken   = errors.New("google ID token is invalid")
)

// GoogleTokenVerifier validates a federated Google ID token and returns its
// subject and email claims.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (subject, email string, err error)
}

type AuthService interface {
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	LoginWithGoogle(ctx context.Context, idToken string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo       repository.UserRepository
	googleVerifier GoogleTokenVerifier
	jwtSecret      string
	jwtExpiration  time.Duration
}

// NewAuthService creates a new instance of authService.
// googleVerifier may be nil, in which case federated sign-in is disabled.
func NewAuthService(userRepo repository.UserRepository, googleVerifier GoogleTokenVerifier, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:       userRepo,
		googleVerifier: googleVerifier,
		jwtSecret:      jwtSecret,
		jwtExpiration:  jwtExpiration,
	}
}

// Register handles new user registration with password credentials.
func (s *authService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	if role == "" {
		role = domain.RoleUser
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login handles password authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// LoginWithGoogle validates a Google ID token and signs the matching user in,
// creating the account on first sign-in.
func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.User, error) {
	if s.googleVerifier == nil {
		return "", nil, errors.New("federated sign-in is not configured")
	}

	subject, email, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		return "", nil, ErrInvalidGoogleToken
	}

	user, err := s.userRepo.GetByGoogleSubject(ctx, subject)
	if errors.Is(err, repository.ErrNotFound) {
		user = &domain.User{
			Email:         email,
			GoogleSubject: subject,
			Role:          domain.RoleUser,
		}
		userID, createErr := s.userRepo.Create(ctx, user)
		if createErr != nil {
			return "", nil, createErr
		}
		user.ID = userID
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitness-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
