package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cwrk-planet/practice-service/internal/domain"

	"github.com/google/uuid"
)

type statsRepo repos

func (r statsRepo) SessionTotals(_ context.Context, userID domain.UserID) (*domain.SessionTotals, error) {
	defer repos(r).lock()()
	st := r.s.st

	t := &domain.SessionTotals{ByTechnique: make([]domain.TechniqueStats, 0)}
	byTech := make(map[uuid.UUID]*domain.TechniqueStats)
	var withDuration int64

	for _, s := range st.sessions {
		if s.UserID != userID {
			continue
		}
		t.Total++

		var minutes int64
		if s.DurationMinutes != nil {
			minutes = *s.DurationMinutes
		}
		if s.State == domain.StateCompleted {
			t.Completed++
			if s.DurationMinutes != nil {
				t.TotalMinutes += minutes
				withDuration++
			}
		}

		tech, ok := st.techniques[s.TechniqueID]
		if !ok {
			continue
		}
		ts := byTech[tech.ID]
		if ts == nil {
			ts = &domain.TechniqueStats{Technique: tech.Name}
			byTech[tech.ID] = ts
		}
		ts.Sessions++
		ts.Minutes += minutes
	}

	// как AVG в postgres: NULL-длительности в среднее не входят
	if withDuration > 0 {
		t.AverageMinutes = float64(t.TotalMinutes) / float64(withDuration)
	}
	for _, ts := range byTech {
		t.ByTechnique = append(t.ByTechnique, *ts)
	}
	slices.SortFunc(t.ByTechnique, func(a, b domain.TechniqueStats) int {
		return strings.Compare(a.Technique, b.Technique)
	})
	return t, nil
}
