// README: Resolves the caller's terminal role from a Firebase token or the X-Terminal-Role header.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"charterdesk/internal/infra"
)

const (
	RoleHeader  = "X-Terminal-Role"
	DefaultRole = "broker"

	ctxUID  = "caller_uid"
	ctxRole = "caller_role"
)

var terminalRoles = map[string]bool{
	"broker":   true,
	"operator": true,
	"pilot":    true,
	"crew":     true,
}

// ValidRole reports whether r names a known terminal.
func ValidRole(r string) bool {
	return terminalRoles[r]
}

// Auth resolves the caller's role. With a verifier every request needs a
// valid "Bearer <Firebase ID token>" and the role comes from its role claim.
// Without one the role is read from X-Terminal-Role. Both default to broker.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uid, role string
		if verifier != nil {
			raw, ok := bearerToken(c.GetHeader("Authorization"))
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
				return
			}
			token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			uid, role = token.UID, token.Role()
		} else {
			role = c.GetHeader(RoleHeader)
		}

		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			role = DefaultRole
		}
		if !ValidRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown terminal role"})
			return
		}
		c.Set(ctxUID, uid)
		c.Set(ctxRole, role)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// CallerUID is the verified Firebase uid, or "" in header mode.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

// CallerRole is the resolved terminal role; broker when Auth did not run.
func CallerRole(c *gin.Context) string {
	if r := c.GetString(ctxRole); r != "" {
		return r
	}
	return DefaultRole
}
