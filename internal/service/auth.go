package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/validation"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const AuthCookie = "auth_token"

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	isProduction   bool
	jwtExpiry      time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		isProduction:   isProduction,
		jwtExpiry:      jwtExpiry,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	errs := validation.Errors{}
	if err := validation.ValidateEmail(email); err != nil {
		errs.Add("email", err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		errs.Add("password", err.Error())
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, validation.Field("email", "email is already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	return user, nil
}

func (s *AuthService) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateJWT returns the signed token and its expiry.
func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiry.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
