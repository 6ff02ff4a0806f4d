package tenant

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenant/config", h.SiteConfig)
	rg.GET("/config/payments", h.PaymentsConfig)
	rg.POST("/tenants/register", h.Create)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	manage := middleware.Require(domain.ActionManageTenants)
	rg.GET("/tenants", manage, h.List)
	rg.GET("/tenants/pending", manage, h.ListPending)
	rg.POST("/tenants/:id/approve", manage, h.Approve)
	rg.POST("/tenants/:id/suspend", manage, h.Suspend)
	rg.GET("/tenants/stats", manage, h.Stats)
}

func (h *Handler) SiteConfig(c *gin.Context) {
	cfg := h.service.SiteConfig(middleware.TenantFrom(c))
	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) PaymentsConfig(c *gin.Context) {
	cfg, err := h.service.PaymentsConfig(c.Request.Context(), middleware.TenantFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tenants)
}

func (h *Handler) ListPending(c *gin.Context) {
	tenants, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tenants)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid tenant id")
		return
	}

	var req ApproveTenantRequest
	_ = c.ShouldBindJSON(&req)

	userID, _ := middleware.Principal(c)
	t, err := h.service.Approve(c.Request.Context(), id, userID, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Suspend(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid tenant id")
		return
	}

	var req SuspendTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.Suspend(c.Request.Context(), id, req.Reason); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"suspended": true})
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
	case errors.Is(err, ErrUnknownPlan):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_PLAN", err.Error())
	case errors.Is(err, ErrDomainTaken):
		response.Error(c, http.StatusConflict, "DOMAIN_TAKEN", err.Error())
	case errors.Is(err, ErrTenantNotFound):
		response.Error(c, http.StatusNotFound, "TENANT_NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
