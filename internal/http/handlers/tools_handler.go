// README: Direct tool access; POST /api/tools/:name with the tool's JSON arguments.
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"charterdesk/internal/tools"
)

const maxToolBody = 64 << 10

type ToolsHandler struct {
	toolbox *tools.Toolbox
}

func NewToolsHandler(tb *tools.Toolbox) *ToolsHandler {
	return &ToolsHandler{toolbox: tb}
}

// List returns the tool names.
func (h *ToolsHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"tools": tools.Names()})
}

// Invoke answers with the tool's {ok,data}|{ok,error} result. Tool-level
// failures are still 200; only unknown tools and malformed args are not.
func (h *ToolsHandler) Invoke(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxToolBody))
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable body")
		return
	}
	res, err := h.toolbox.Invoke(c.Request.Context(), c.Param("name"), raw)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
