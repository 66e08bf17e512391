package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// MaxIdentityLength bounds the subject and shop_owner_id claims; it matches the
// width of the tenant and actor columns.
const MaxIdentityLength = 255

// Claims are the JWT claims issued by the shop platform's identity service.
// The subject is the actor; ShopOwnerID scopes every ledger operation.
type Claims struct {
	ShopOwnerID string `json:"shop_owner_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortUnauthorized(c, msg)
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			logger.Warn("Invalid token claims or token is not valid")
			abortUnauthorized(c, "Invalid token")
			return
		}
		if claims.Subject == "" || claims.ShopOwnerID == "" {
			logger.Warn("Token is missing subject or shop_owner_id")
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		if len(claims.Subject) > MaxIdentityLength || len(claims.ShopOwnerID) > MaxIdentityLength {
			logger.Warn("Token identity claims too long",
				slog.Int("subject_length", len(claims.Subject)),
				slog.Int("shop_owner_id_length", len(claims.ShopOwnerID)))
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		enrichedLogger := logger.With(
			slog.String("user_id", claims.Subject),
			slog.String("tenant_id", claims.ShopOwnerID),
		)
		ctx := WithIdentity(c.Request.Context(), claims.Subject, claims.ShopOwnerID)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))
		c.Set(string(userIDKey), claims.Subject)
		c.Set(string(tenantIDKey), claims.ShopOwnerID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": msg})
}
