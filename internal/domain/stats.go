package domain

type TechniqueStats struct {
	Technique string
	Sessions  int64
	Minutes   int64
}

// SessionTotals: сырые агрегаты по сессиям пользователя.
type SessionTotals struct {
	Total          int64
	Completed      int64
	TotalMinutes   int64
	AverageMinutes float64
	ByTechnique    []TechniqueStats
}

type Stats struct {
	TotalSessions     int64
	CompletedSessions int64
	TotalMinutes      int64
	TotalHours        float64
	AverageMinutes    float64
	ByTechnique       []TechniqueStats
}
