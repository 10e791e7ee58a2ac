package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lms/api/internal/middleware"
	"lms/api/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toAuthResponse(result))
}

// refreshRequest takes any string; an empty token fails as an unknown one.
type refreshRequest struct {
	RefreshToken *string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Auth.Refresh(c.Request.Context(), *req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toAuthResponse(result))
}

func (h HandlerSet) Logout(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Auth.Logout(c.Request.Context(), *req.RefreshToken); err != nil {
		h.writeError(c, err)
		return
	}

	writeMessage(c, http.StatusOK, "Logged out successfully")
}

func (h HandlerSet) Me(c *gin.Context) {
	current, _ := middleware.CurrentUser(c)

	user, err := h.svc.Auth.Me(c.Request.Context(), current.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toUserResponse(user))
}

type updateMeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

func (h HandlerSet) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	current, _ := middleware.CurrentUser(c)
	user, err := h.svc.Auth.UpdateMe(c.Request.Context(), current.ID, service.UpdateMeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	writeData(c, http.StatusOK, toUserResponse(user))
}
