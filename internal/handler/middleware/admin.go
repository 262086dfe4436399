package middleware

import (
	"crypto/subtle"
	"net/http"

	"questbook/internal/handler/httperr"
	"questbook/internal/pkg/config"
	"questbook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errAdminTokenRequired = errs.New("admin token missing or invalid")

const adminTokenHeader = "X-Admin-Token"

// AdminMiddleware guards the back-office surface with a static token. The
// admin console is an internal tool behind its own auth; this is a second
// fence, not the primary one.
type AdminMiddleware struct {
	token string
}

func NewAdminMiddleware(cfg config.AdminConfig) *AdminMiddleware {
	return &AdminMiddleware{token: cfg.Token}
}

func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(adminTokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(m.token)) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, errAdminTokenRequired, "Admin token required", nil)
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the current request carries a valid admin token.
// Used by dual-surface endpoints that relax checks for back-office staff.
func (m *AdminMiddleware) IsAdmin(c *gin.Context) bool {
	got := c.GetHeader(adminTokenHeader)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(m.token)) == 1
}
