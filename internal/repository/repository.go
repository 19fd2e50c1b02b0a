// Package repository executes scoped queries and mutations. Handlers never
// touch gorm directly: they hand the repository a policy scope and the
// repository compiles it into the filter appropriate for the entity.
package repository

import (
	"time"

	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/prometheus"
)

// Repository wraps the request-scoped database handle.
type Repository struct {
	db *gorm.DB
}

// New creates a repository over the given database handle.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for wiring (policy engine, middleware).
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// audit columns are server-controlled and silently dropped from any inbound
// payload, together with the primary key.
var protectedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"created_by": true,
	"updated_at": true,
	"updated_by": true,
}

// filterColumns keeps only columns the entity allows clients to modify.
func filterColumns(updates map[string]interface{}, allowed map[string]bool) map[string]interface{} {
	fields := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if protectedColumns[key] || !allowed[key] {
			continue
		}
		fields[key] = value
	}
	return fields
}

// stampCreate wipes any client-supplied audit data and stamps provenance.
func stampCreate(a *model.Audit, actorID uint) {
	now := time.Now()
	updatedBy := actorID
	*a = model.Audit{
		CreatedAt: now,
		CreatedBy: actorID,
		UpdatedAt: now,
		UpdatedBy: &updatedBy,
	}
}

// patch applies a partial update to an already-loaded row: only allowed
// columns present in the payload are written, and updated_at/updated_by are
// always stamped regardless of what the client sent.
func (r *Repository) patch(target interface{}, updates map[string]interface{}, allowed map[string]bool, actorID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	fields := filterColumns(updates, allowed)
	fields["updated_at"] = time.Now()
	fields["updated_by"] = actorID

	return r.db.Model(target).Updates(fields).Error
}
