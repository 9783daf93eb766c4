package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given group. Reads are
// public; mutating routes sit behind the given auth middleware.
func (h *Handler) Register(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.getByID)

	authed := rg.Group("", requireUser)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.PATCH("/:id/update_status", h.updateStatus)
	authed.DELETE("/:id", h.delete)
}
