package middleware

import (
	"context"
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain"
)

const CtxTenant = "tenant"

type tenantLookup interface {
	GetByHost(ctx context.Context, host string) (*domain.Tenant, error)
}

// DetectTenant resolves the request Host against the tenant registry and, if
// matched, attaches the tenant to the context. The master site simply has no
// tenant; lookup failures never block the request.
func DetectTenant(tenants tenantLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = strings.ToLower(host)

		if host != "" {
			if t, err := tenants.GetByHost(c.Request.Context(), host); err == nil {
				c.Set(CtxTenant, t)
			}
		}

		c.Next()
	}
}

// TenantFrom returns the tenant attached by DetectTenant, if any.
func TenantFrom(c *gin.Context) *domain.Tenant {
	v, ok := c.Get(CtxTenant)
	if !ok {
		return nil
	}
	t, _ := v.(*domain.Tenant)
	return t
}
