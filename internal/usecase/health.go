package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hashbeam/hashbeam/internal/domain/entities"
	"github.com/hashbeam/hashbeam/internal/domain/repository"
)

// HealthUseCase probes the two external collaborators the pipeline depends
// on: the metadata store and the object store.
type HealthUseCase struct {
	metadata  repository.MetadataRepository
	store     repository.ObjectStore
	startTime time.Time
	version   string
}

// NewHealthUseCase creates a new health use case.
func NewHealthUseCase(metadata repository.MetadataRepository, store repository.ObjectStore, version string) *HealthUseCase {
	return &HealthUseCase{
		metadata:  metadata,
		store:     store,
		startTime: time.Now(),
		version:   version,
	}
}

// GetHealth returns the overall health status with one check per subsystem,
// so a failure names the collaborator that caused it.
func (h *HealthUseCase) GetHealth(ctx context.Context) *entities.HealthCheck {
	checks := map[string]entities.CheckResult{
		"metadata":     h.checkMetadata(ctx),
		"object_store": h.checkObjectStore(ctx),
	}

	status := entities.HealthStatusUp
	for _, check := range checks {
		if check.Status == entities.HealthStatusDown {
			status = entities.HealthStatusDown
			break
		}
	}

	return &entities.HealthCheck{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime),
		Checks:    checks,
	}
}

// GetReadiness reports whether both collaborators are reachable.
func (h *HealthUseCase) GetReadiness(ctx context.Context) (bool, string) {
	if err := h.metadata.Ping(ctx); err != nil {
		return false, fmt.Sprintf("metadata store unreachable: %v", err)
	}
	if err := h.store.Ping(ctx); err != nil {
		return false, fmt.Sprintf("object store unreachable: %v", err)
	}
	return true, "ready"
}

// GetLiveness reports whether the process can serve at all.
func (h *HealthUseCase) GetLiveness(ctx context.Context) bool {
	return true
}

func (h *HealthUseCase) checkMetadata(ctx context.Context) entities.CheckResult {
	if err := h.metadata.Ping(ctx); err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	result := entities.CheckResult{Status: entities.HealthStatusUp}
	if count, err := h.metadata.Count(ctx); err == nil {
		result.Details = map[string]interface{}{"file_count": count}
	}
	return result
}

func (h *HealthUseCase) checkObjectStore(ctx context.Context) entities.CheckResult {
	if err := h.store.Ping(ctx); err != nil {
		return entities.CheckResult{
			Status:  entities.HealthStatusDown,
			Message: fmt.Sprintf("bucket unreachable: %v", err),
		}
	}
	return entities.CheckResult{Status: entities.HealthStatusUp}
}
