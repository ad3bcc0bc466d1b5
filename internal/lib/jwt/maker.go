// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает операции с токенами доступа.
type Maker interface {
	GenerateToken(username, role, userUID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl подписывает и проверяет токены ключом HS256.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создает MakerImpl с заданным секретом и временем жизни токена.
func NewMaker(secretKey string, tokenTTL time.Duration) *MakerImpl {
	return &MakerImpl{secretKey: secretKey, tokenTTL: tokenTTL}
}

// GenerateToken создает JWT токен с заданными username, role и userUID.
func (j *MakerImpl) GenerateToken(username, role, userUID string) (string, error) {
	claims := CustomClaims{
		Username: username,
		Role:     role,
		UserUID:  userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и срок действия,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
