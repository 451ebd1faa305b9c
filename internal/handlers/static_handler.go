package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoContent answers browser favicon probes without logging them as 404s.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NotFound is the fallback for every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route non trouvée"})
}
