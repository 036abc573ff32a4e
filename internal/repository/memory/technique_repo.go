package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type techniqueRepo repos

func (r techniqueRepo) Get(_ context.Context, id uuid.UUID) (*domain.Technique, error) {
	defer repos(r).lock()()

	t, ok := r.s.st.techniques[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r techniqueRepo) GetMany(_ context.Context, ids ...uuid.UUID) (map[uuid.UUID]domain.Technique, error) {
	defer repos(r).lock()()

	out := make(map[uuid.UUID]domain.Technique, len(ids))
	for _, id := range ids {
		if t, ok := r.s.st.techniques[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (r techniqueRepo) List(_ context.Context, name string) ([]domain.Technique, error) {
	defer repos(r).lock()()

	needle := strings.ToLower(name)
	out := make([]domain.Technique, 0, len(r.s.st.techniques))
	for _, t := range r.s.st.techniques {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b domain.Technique) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
