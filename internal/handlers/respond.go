package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// serverError logs the failure and writes a 500. The raw error is only
// surfaced when gin runs in debug mode; release mode keeps the body generic.
func serverError(c *gin.Context, op string, err error) {
	log.Printf("[%s] server error: %v", op, err)
	body := gin.H{"success": false, "message": "Internal Server Error"}
	if gin.Mode() == gin.DebugMode {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}
