package domain

const (
	TenantIDCtxKey = "lienos-tenantId"
)

const (
	TenantIDHeader = "x-tenant-id"
)

// Record field names present on every stored document.
const (
	FieldID        = "id"
	FieldTenantID  = "tenant_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)
