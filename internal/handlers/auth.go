package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and login.
type authCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 envelope on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		h.respondError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      201  {object}  map[string]interface{}  "id, email, role"
// @Failure      400  {object}  errorEnvelope
// @Failure      409  {object}  errorEnvelope  "email already registered"
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_register_failed", "email", input.Email, "err", err)
		}
		h.respondServiceError(c, err, "auth_register_failed")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary      Log in and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "accessToken, user"
// @Failure      400  {object}  errorEnvelope
// @Failure      401  {object}  errorEnvelope  "invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, user, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "email", input.Email, "err", err)
		}
		h.respondServiceError(c, err, "auth_login_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
	})
}

// @Summary      Current authenticated user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "id, email, role"
// @Failure      401  {object}  errorEnvelope
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Admin-only probe
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Router       /auth/admin-test [get]
// @Security     BearerAuth
func (h *Handler) adminTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "You are admin!"})
}
