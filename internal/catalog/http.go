package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Register attaches the read-only catalog routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listCategories)
	rg.GET("/skills", h.listSkills)
}

func (h *Handler) listCategories(c *gin.Context) {
	refs, err := h.resolver.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": refs})
}

func (h *Handler) listSkills(c *gin.Context) {
	refs, err := h.resolver.Skills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load skills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": refs})
}
