package integrations

import (
	"context"
	"fmt"
	"log/slog"
)

// RepositoryPort abstracts integration persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, partnerID, accountID string, typ SystemType) (Integration, error)
	GetByID(ctx context.Context, id string) (Integration, error)
	SaveMappings(ctx context.Context, integ Integration) error
}

// Service exposes the mapping update surface.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs the integrations service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve loads the integration for the tuple, falling back to the partner's
// global document.
func (s *Service) Resolve(ctx context.Context, partnerID, accountID string, typ SystemType) (Integration, error) {
	if !typ.Valid() {
		return Integration{}, fmt.Errorf("integrations: unsupported system type %q", typ)
	}
	return s.repo.Get(ctx, partnerID, accountID, typ)
}

// AddMapping validates and appends a mapping entry. A duplicate or invalid
// entry fails without mutating the stored document.
func (s *Service) AddMapping(ctx context.Context, integrationID string, entry MappingEntry) (Integration, error) {
	integ, err := s.repo.GetByID(ctx, integrationID)
	if err != nil {
		return Integration{}, err
	}
	updated, err := integ.WithMapping(entry)
	if err != nil {
		return Integration{}, err
	}
	if err := s.repo.SaveMappings(ctx, updated); err != nil {
		return Integration{}, err
	}
	s.logger.Info("mapping added",
		slog.String("integration_id", integrationID),
		slog.String("kind", string(entry.mappingKind())))
	return updated, nil
}

// RemoveMapping pulls the entry with the given natural key. Removing an
// absent key is a no-op.
func (s *Service) RemoveMapping(ctx context.Context, integrationID string, kind MappingKind, key string) (Integration, error) {
	integ, err := s.repo.GetByID(ctx, integrationID)
	if err != nil {
		return Integration{}, err
	}
	updated, err := integ.WithoutMapping(kind, key)
	if err != nil {
		return Integration{}, err
	}
	if err := s.repo.SaveMappings(ctx, updated); err != nil {
		return Integration{}, err
	}
	s.logger.Info("mapping removed",
		slog.String("integration_id", integrationID),
		slog.String("kind", string(kind)),
		slog.String("key", key))
	return updated, nil
}
