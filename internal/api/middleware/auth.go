package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localhandler/marketplace/internal/config"
	"github.com/localhandler/marketplace/internal/domain"
)

const actorContextKey = "actor"

// Claims carried by marketplace tokens. Session issuance lives in the
// auth service; this middleware only verifies.
type Claims struct {
	ActorType string `json:"actor_type"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and injects the actor into
// the request context. Handlers pass the actor explicitly into every
// service operation.
func AuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		actorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token subject"})
			return
		}

		actorType := domain.ActorType(claims.ActorType)
		switch actorType {
		case domain.ActorTypeUser, domain.ActorTypeSeller, domain.ActorTypeAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unknown actor type"})
			return
		}

		c.Set(actorContextKey, domain.Actor{
			ID:    actorID,
			Type:  actorType,
			Name:  claims.Name,
			Email: claims.Email,
		})

		c.Next()
	}
}

// RequireActorType rejects requests whose actor is not one of the
// allowed types. Service operations re-check ownership; this is the
// transport-level gate.
func RequireActorType(types ...domain.ActorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		for _, t := range types {
			if actor.Type == t {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
	}
}

// GetActorFromContext returns the authenticated actor set by
// AuthMiddleware.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	v, exists := c.Get(actorContextKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
