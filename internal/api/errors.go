package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable user-facing messages. The front-end and the tests match on these, so
// each failure kind keeps its own distinct text.
const (
	MsgMissingToken       = "Token não fornecido!"
	MsgInvalidToken       = "Token inválido!"
	MsgExpiredToken       = "Token expirado!"
	MsgAdminRequired      = "Acesso negado! Requer permissão de administrador."
	MsgManagerRequired    = "Acesso negado! Requer permissão de gestor ou administrador."
	MsgInvalidCredentials = "Credenciais inválidas!"
	MsgInvalidPayload     = "Dados não fornecidos!"
	MsgNoFieldsToUpdate   = "Nenhum campo para atualizar!"
)

// APIError is the uniform error response body.
type APIError struct {
	Message string `json:"message"`
}

// ErrorResponse writes the uniform error shape with the given status.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Message: message})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalError writes a 500 response. Internal detail stays in the logs.
func InternalError(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "Erro interno do servidor!")
}
