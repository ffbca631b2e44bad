package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// StatusFor maps an error kind to an HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInput, apperr.KindDecode:
		return http.StatusUnprocessableEntity
	case apperr.KindSizeLimit:
		return http.StatusRequestEntityTooLarge
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	msg := apperr.MessageOf(err)
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSONError(c, status, string(kind), msg)
}

func writeJSONError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Kind: kind, Message: message}})
}
