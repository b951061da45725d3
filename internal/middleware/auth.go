package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/repository"
)

const (
	ActorContextKey  = "actor"
	UserIDContextKey = "user_id"
)

// AccessClaims is the token shape issued by the auth service; only the user id
// matters here, roles are re-read from the database on every request.
type AccessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func AuthRequired(userRepo repository.UserRepository, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization header format",
			})
		}

		claims := &AccessClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		subject := claims.UserID
		if subject == "" {
			subject = claims.Subject
		}
		userID, err := uuid.Parse(subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token subject",
			})
		}

		user, err := userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "User not found",
			})
		}

		c.Locals(ActorContextKey, domain.ActingUserFrom(user))
		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

func GetActor(c *fiber.Ctx) domain.ActingUser {
	actor, ok := c.Locals(ActorContextKey).(domain.ActingUser)
	if !ok {
		return domain.ActingUser{}
	}
	return actor
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
