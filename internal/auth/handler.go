package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"foodcost-backend/internal/config"
	"foodcost-backend/internal/httpx"
	"foodcost-backend/internal/models"
	"foodcost-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type MeResponse struct {
	ID    uint            `json:"id"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func (b *Credentials) normalize() {
	b.Email = strings.TrimSpace(strings.ToLower(b.Email))
}

// POST /api/auth/register
// The first account becomes admin, every later one a viewer.
func RegisterHandler(users UserStore, cfg config.JWTConfig, log *zap.Logger) fiber.Handler {
	log = log.Named("auth")

	return func(c *fiber.Ctx) error {
		var body Credentials
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.normalize()

		if _, err := mail.ParseAddress(body.Email); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "a valid email is required")
		}
		if len(body.Password) < minPasswordLength {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
		}

		ctx := c.UserContext()
		if _, err := users.FindUserByEmail(ctx, body.Email); err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "email already registered")
		} else if !errors.Is(err, store.ErrNotFound) {
			return httpx.StoreError(log, err, "")
		}

		count, err := users.CountUsers(ctx)
		if err != nil {
			return httpx.StoreError(log, err, "")
		}
		role := models.RoleViewer
		if count == 0 {
			role = models.RoleAdmin
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("hash password", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
		}
		if err := users.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusBadRequest, "email already registered")
			}
			return httpx.StoreError(log, err, "")
		}

		token, err := GenerateToken(cfg.Secret, cfg.TokenTTL, &user)
		if err != nil {
			log.Error("sign token", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(role)))
		return c.Status(fiber.StatusCreated).JSON(TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// POST /api/auth/login
func LoginHandler(users UserStore, cfg config.JWTConfig, log *zap.Logger) fiber.Handler {
	log = log.Named("auth")

	return func(c *fiber.Ctx) error {
		var body Credentials
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.normalize()

		user, err := users.FindUserByEmail(c.UserContext(), body.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
			}
			return httpx.StoreError(log, err, "")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		token, err := GenerateToken(cfg.Secret, cfg.TokenTTL, user)
		if err != nil {
			log.Error("sign token", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		return c.JSON(TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// GET /api/auth/me
func MeHandler(users UserStore, log *zap.Logger) fiber.Handler {
	log = log.Named("auth")

	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		user, err := users.GetUser(c.UserContext(), actor.UserID)
		if err != nil {
			return httpx.StoreError(log, err, "User not found")
		}

		return c.JSON(MeResponse{ID: user.ID, Email: user.Email, Role: user.Role})
	}
}
