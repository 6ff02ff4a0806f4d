package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain"
	"staybook/internal/middleware"
	"staybook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	users := middleware.Require(domain.ActionManageUsers)
	rg.POST("/users", users, h.CreateUser)
	rg.GET("/users", users, h.ListUsers)

	settings := middleware.Require(domain.ActionManageSettings)
	rg.GET("/settings", settings, h.ListSettings)
	rg.PUT("/settings/:key", settings, h.UpdateSetting)

	supplies := middleware.Require(domain.ActionManageSupplies)
	rg.POST("/supplies", supplies, h.CreateSupply)
	rg.GET("/supplies", supplies, h.ListSupplies)

	rg.GET("/stats", middleware.Require(domain.ActionViewStats), h.Stats)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.service.ListSettings(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

func (h *Handler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	userID, _ := middleware.Principal(c)
	setting, err := h.service.UpdateSetting(c.Request.Context(), c.Param("key"), req, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, setting)
}

func (h *Handler) CreateSupply(c *gin.Context) {
	var req CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sup, err := h.service.CreateSupply(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sup)
}

func (h *Handler) ListSupplies(c *gin.Context) {
	supplies, err := h.service.ListSupplies(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, supplies)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrRoleNotAllowed):
		response.Error(c, http.StatusBadRequest, "ROLE_NOT_ALLOWED", err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrSettingNotFound):
		response.Error(c, http.StatusNotFound, "SETTING_NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
