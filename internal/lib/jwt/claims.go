package jwt

import "github.com/golang-jwt/jwt/v5"

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
//
// Тариф в токен сознательно не кладется: эффективный тариф зависит от
// сроков подписки и вычисляется на каждый запрос, а не фиксируется при входе.
type CustomClaims struct {
	Username             string `json:"username"` // Имя пользователя
	Role                 string `json:"role"`     // Роль пользователя
	UserUID              string `json:"user_uid"` // Уникальный идентификатор пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}
