package middleware

import (
	"net/http"
	"strings"

	"servebook/models"
	"servebook/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// ActorAuthMiddleware extracts the authenticated actor (ID plus role claim)
// from the bearer token. The engine trusts the identity source; it performs
// no authentication of its own beyond signature validation.
func ActorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		id, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		actor := models.Actor{ID: id, Role: models.ActorRole(role)}
		if actor.Role != models.RoleConsumer && actor.Role != models.RoleProvider {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Unknown actor role",
			})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor set by ActorAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
