package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

// TechniqueService: каталог техник только на чтение.
type TechniqueService struct {
	store repository.Store
}

func NewTechniqueService(store repository.Store) *TechniqueService {
	return &TechniqueService{store: store}
}

func (s *TechniqueService) List(ctx context.Context, name string) ([]domain.Technique, error) {
	list, err := s.store.Techniques().List(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("techniqueRepo.List: %w", err)
	}
	return list, nil
}

func (s *TechniqueService) Get(ctx context.Context, id uuid.UUID) (*domain.Technique, error) {
	t, err := s.store.Techniques().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTechniqueNotFound
		}
		return nil, fmt.Errorf("techniqueRepo.Get: %w", err)
	}
	return t, nil
}
