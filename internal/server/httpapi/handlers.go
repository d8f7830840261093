package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"github.com/gin-gonic/gin"
)

type authResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    models.Profile `json:"user"`
}

type userResponse struct {
	Message string         `json:"message,omitempty"`
	User    models.Profile `json:"user"`
}

type errorsResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

func (s *Server) health(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

func (s *Server) signup(c *gin.Context) {
	var req services.SignupRequest
	if !bindJSON(c, &req) {
		s.metrics.authOutcome(opSignup, outcomeRejected)
		return
	}

	res, err := s.auth.Signup(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, opSignup, err)
		return
	}

	s.metrics.authOutcome(opSignup, outcomeSuccess)
	c.JSON(http.StatusCreated, authResponse{Message: "Signed Up Successfully..!!", Token: res.Token, User: res.User})
}

func (s *Server) login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		s.metrics.authOutcome(opLogin, outcomeRejected)
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, opLogin, err)
		return
	}

	s.metrics.authOutcome(opLogin, outcomeSuccess)
	c.JSON(http.StatusOK, authResponse{Message: "Logged In Successfully..!!", Token: res.Token, User: res.User})
}

func (s *Server) me(c *gin.Context) {
	profile, ok := s.profile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse{User: *profile})
}

func (s *Server) dashboard(c *gin.Context) {
	profile, ok := s.profile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse{
		Message: fmt.Sprintf("Welcome %s to Admin Dashboard..!!", profile.Username),
		User:    *profile,
	})
}

// profile loads the user named by the token subject, writing 404 or 500 on
// failure.
func (s *Server) profile(c *gin.Context) (*models.Profile, bool) {
	profile, err := s.auth.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.writeError(c, opProfile, err)
		return nil, false
	}
	return profile, true
}

// bindJSON decodes the body into v. A body that is not a JSON object is
// reported as a field error on "body".
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, errorsResponse{Errors: []validation.FieldError{
			{Field: "body", Message: "Request body must be a JSON object"},
		}})
		return false
	}
	return true
}
