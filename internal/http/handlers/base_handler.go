// README: Base handler utilities (JSON helpers, id validation, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"charterdesk/internal/modules/conversation"
	"charterdesk/internal/tools"
)

type errorResponse struct {
	Error string `json:"error"`
}

const maxIDLen = 64

// isValidID accepts uuids and other short slugs of letters, digits, '-' and '_'.
func isValidID(v string) bool {
	if v == "" || len(v) > maxIDLen {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, tools.ErrUnknownTool):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, tools.ErrBadArgs):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
