// internal/service/system_service.go
package service

import (
	"context"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// SystemService exposes the audit trail to the dashboard.
type SystemService struct {
	store repository.Store
}

func NewSystemService(store repository.Store) *SystemService {
	return &SystemService{store: store}
}

func (s *SystemService) ListLogs(ctx context.Context, limit int) ([]domain.SystemLog, error) {
	return s.store.ListSystemLogs(ctx, limit)
}
