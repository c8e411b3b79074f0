package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/apperr"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// respondError maps the error taxonomy to HTTP. Validation errors keep
// their field keys; everything else lands under "_form". Internal
// causes are logged, never echoed.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	switch kind {
	case apperr.Validation:
		errors := gin.H{}
		for field, msg := range apperr.FieldsOf(err) {
			errors[field] = msg
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "errors": errors})
	case apperr.Unauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "errors": gin.H{"_form": err.Error()}})
	case apperr.Forbidden:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "errors": gin.H{"_form": err.Error()}})
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "errors": gin.H{"_form": err.Error()}})
	case apperr.Conflict:
		c.JSON(http.StatusConflict, gin.H{"success": false, "errors": gin.H{"_form": err.Error()}})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"errors":  gin.H{"_form": "something went wrong"},
		})
	}
}

func respondBadJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"errors":  gin.H{"_form": "invalid request body: " + err.Error()},
	})
}
