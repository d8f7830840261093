package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

var internalMessages = map[string]string{
	opSignup:  "Signup failed due to Internal Server Error..!!",
	opLogin:   "Login failed due to Internal Server Error..!!",
	opProfile: "Internal Server Error..!!",
}

// writeError is the single place where service outcomes become status codes.
// Internal faults are logged with their cause and answered with a fixed
// body.
func (s *Server) writeError(c *gin.Context, op string, err error) {
	var rejected *services.RejectedError
	switch {
	case errors.As(err, &rejected):
		s.metrics.authOutcome(op, outcomeLabel(rejected.Kind))
		c.JSON(http.StatusBadRequest, errorsResponse{Errors: rejected.Fields})

	case errors.Is(err, common.ErrorNotFound):
		s.metrics.authOutcome(op, outcomeNotFound)
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found..!!"})

	default:
		s.metrics.authOutcome(op, outcomeError)
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey),
			"op", op,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalMessages[op], "error": "internal error"})
	}
}

func outcomeLabel(kind error) string {
	switch {
	case errors.Is(kind, common.ErrAlreadyExists):
		return outcomeConflict
	case errors.Is(kind, common.ErrorNotFound):
		return outcomeNotFound
	case errors.Is(kind, common.ErrorUnauthorized):
		return outcomeBadCredentials
	default:
		return outcomeRejected
	}
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
