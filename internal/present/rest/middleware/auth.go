package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lienworks/lienos/internal/domain"
	"github.com/lienworks/lienos/internal/present/rest/presenter"
)

var tracer = otel.Tracer("auth")

// TenantMiddleware extracts the per-request tenant identity. The tenant id
// header is treated as already authenticated by the upstream edge; every
// store and engine call downstream is scoped to it.
type TenantMiddleware struct{}

func NewTenantMiddleware() *TenantMiddleware {
	return &TenantMiddleware{}
}

func (m *TenantMiddleware) IdentifyTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyTenant")
		defer span.End()

		tenantID := c.Request().Header.Get(domain.TenantIDHeader)
		if tenantID == "" {
			span.RecordError(errors.New("TenantMiddleware.IdentifyTenant: missing tenant header"))
			return presenter.Unauthorized(c, "tenant identity required")
		}

		ctx = context.WithValue(ctx, domain.TenantIDCtxKey, tenantID)
		span.SetAttributes(attribute.String("TenantId", tenantID))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// TenantFromContext returns the authenticated tenant id, or "" when absent.
func TenantFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(domain.TenantIDCtxKey).(string)
	return tenantID
}
