package jwtController

import (
	"github.com/ethereum/go-ethereum/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/GintGld/video-baker/internal/models"
)

type JWT struct {
	secret   []byte
	sessions SessionReader
}

type SessionReader interface {
	Current() models.Session
}

func New(secret []byte, sessions SessionReader) *JWT {
	return &JWT{
		secret:   secret,
		sessions: sessions,
	}
}

// AuthRequired accepts tokens issued for the
// currently connected account only.
func (jwtController *JWT) AuthRequired() func(*fiber.Ctx) error {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: jwtController.secret},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication error",
			})
		},
		SuccessHandler: jwtController.sessionBound,
	})
}

func (jwtController *JWT) sessionBound(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication error",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication error",
		})
	}

	address, _ := claims["address"].(string)
	sess := jwtController.sessions.Current()

	if !sess.Connected || !common.IsHexAddress(address) || common.HexToAddress(address) != sess.Address {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "session expired",
		})
	}

	return c.Next()
}
