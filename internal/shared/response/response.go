// Package response shapes every body this API emits. Validation failures
// are ordered arrays of {field, message, validation}; unexpected failures
// become a generic localized body that hides internal detail.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/validation"
)

// GeneralError is the shape of non-field-specific failure entries.
type GeneralError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	msgRequestFailure = "Falha na requisição, tente novamente ou contate o administrador"
	msgLoginFailure   = "Falha no login, verifique suas credenciais"
	msgUnauthorized   = "Não autorizado"
)

// ValidationErrors writes the collected rule failures with the given
// status (400, or 404 for show/destroy-by-id lookups).
func ValidationErrors(c *gin.Context, status int, errs []validation.FieldError) {
	c.JSON(status, errs)
}

// FieldFailure writes a single field-scoped failure as a 400.
func FieldFailure(c *gin.Context, field, message, rule string) {
	c.JSON(http.StatusBadRequest, []validation.FieldError{
		{Field: field, Message: message, Validation: rule},
	})
}

// RequestFailure is the generic 500 body. Internal detail is logged by the
// caller, never surfaced.
func RequestFailure(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, []GeneralError{
		{Field: "general", Message: msgRequestFailure},
	})
}

// LoginFailure is the 401 body for bad credentials or bad refresh tokens.
func LoginFailure(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, []GeneralError{
		{Field: "general", Message: msgLoginFailure},
	})
}

// Unauthorized is the 401 body for missing or invalid bearer tokens.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, []GeneralError{
		{Field: "general", Message: msgUnauthorized},
	})
}
