package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Ключ контекста с идентификатором владельца
const userIDKey = "user_id"

// AuthConfig конфигурация для JWT-аутентификации
type AuthConfig struct {
	// Secret секрет для проверки HMAC-подписи токена
	Secret string
	// HeaderName имя заголовка с токеном (по умолчанию: Authorization)
	HeaderName string
}

// Auth middleware, разбирающий bearer-токен и кладущий идентификатор
// владельца в контекст. Выдача токенов — забота внешнего auth-сервиса,
// здесь только проверка подписи и извлечение subject.
type Auth struct {
	config AuthConfig
}

// NewAuth создаёт новый auth middleware
func NewAuth(config AuthConfig) *Auth {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	return &Auth{config: config}
}

// Middleware возвращает Gin middleware handler для аутентификации
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(a.config.HeaderName)
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(a.config.Secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// RequireAuth хелпер для создания middleware с секретом
func RequireAuth(secret string) gin.HandlerFunc {
	return NewAuth(AuthConfig{Secret: secret}).Middleware()
}

// UserIDFromContext извлекает идентификатор владельца из контекста
func UserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
