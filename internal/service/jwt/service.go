package jwtService

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GintGld/video-baker/internal/models"
)

type JWT struct {
	secret []byte
}

func New(secret []byte) *JWT {
	return &JWT{
		secret: secret,
	}
}

// NewToken issues token bound to the session account.
func (jwtStruct *JWT) NewToken(session models.Session, duration time.Duration) (string, error) {
	const op = "JWT.NewToken"

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["address"] = session.Address.Hex()
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString(jwtStruct.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tokenString, nil
}
