package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	userIDKey       = "user_id"
)

// requestID keeps an incoming X-Request-ID or makes one up, and echoes it
// back on the response.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if generated, err := common.MakeRandHexString(8); err == nil {
				id = generated
			}
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.observeRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		s.logger.Info(c.Request.Context(), "request",
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed,
		)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(header string) (string, bool) {
	if len(header) <= len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// bearerAuth rejects the request with 401 unless it carries a valid token,
// and stores the token subject under userIDKey.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeader))
		if !ok {
			s.metrics.authFailure("missing")
			unauthorized(c)
			return
		}

		userID, err := s.tokens.GetUserIDFromToken(token)
		if err != nil {
			s.metrics.authFailure(tokenFailureReason(err))
			s.logger.Debug(c.Request.Context(), "token rejected", "request_id", c.GetString(requestIDKey), "error", err)
			unauthorized(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login with Admin Credentials..!!"})
}
