package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email)
	if err == nil && existing != nil {
		return nil, shared.NewConflictError(errors.New("email already registered"), "Email already registered")
	}
	existing, err = svc.sqlSvc.GetUserByEmailOrUsername(req.Username)
	if err == nil && existing != nil {
		return nil, shared.NewConflictError(errors.New("username already taken"), "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hash),
		Role:      "learner",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := svc.sqlSvc.CreateUser(user); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create user")
	}

	log.WithField("user_id", user.ID).Info("User registered")

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
		}
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate tokens")
	}

	user.LastLogin = time.Now()
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.ID, err)
	}

	return &dto.LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Tokens:   *tokens,
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	userID, err := svc.jwtSvc.VerifyJWTToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid refresh token")
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Unknown user")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate tokens")
	}

	return &dto.LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Tokens:   *tokens,
	}, nil
}

// RequiredAuth verifies the bearer token and stores the user id in locals.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}
