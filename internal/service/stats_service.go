package service

import (
	"context"
	"fmt"
	"math"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"
)

type StatsService struct {
	store repository.Store
}

func NewStatsService(store repository.Store) *StatsService {
	return &StatsService{store: store}
}

// Get считает статистику пользователя. Минуты и среднее считаются только
// по Completado, разбивка по техникам идёт по всем сессиям.
func (s *StatsService) Get(ctx context.Context, userID domain.UserID) (*domain.Stats, error) {
	t, err := s.store.Stats().SessionTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.SessionTotals: %w", err)
	}

	return &domain.Stats{
		TotalSessions:     t.Total,
		CompletedSessions: t.Completed,
		TotalMinutes:      t.TotalMinutes,
		TotalHours:        round2(float64(t.TotalMinutes) / 60),
		AverageMinutes:    round2(t.AverageMinutes),
		ByTechnique:       nonNil(t.ByTechnique),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
