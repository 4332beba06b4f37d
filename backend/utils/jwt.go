package utils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/nbc7/nlw-habits-server/backend/config"
)

func GenerateJWTToken(userID uuid.UUID, email string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractEmailFromToken разбирает токен из заголовка Authorization или из
// cookie "token" и возвращает email владельца
func ExtractEmailFromToken(c *fiber.Ctx, cfg *config.Config) (string, error) {
	tokenString := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if tokenString == "" {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid email in token")
	}

	return email, nil
}
