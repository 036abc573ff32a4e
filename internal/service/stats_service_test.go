package service

import (
	"context"
	"testing"
)

func TestStats_Empty(t *testing.T) {
	env := newTestEnv(t)

	st, err := env.stats.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.TotalSessions != 0 || st.CompletedSessions != 0 || st.TotalMinutes != 0 || st.TotalHours != 0 || st.AverageMinutes != 0 {
		t.Fatalf("empty stats = %+v", st)
	}
	if st.ByTechnique == nil || len(st.ByTechnique) != 0 {
		t.Fatalf("breakdown must be an empty list: %+v", st.ByTechnique)
	}
}

func TestStats_Totals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	techID := env.technique.ID.String()

	mk := func(start, end, state string) {
		in := CreateSessionInput{TechniqueID: techID, Start: ptr(start), End: ptr(end)}
		if state != "" {
			in.State = ptr(state)
		}
		if _, err := env.sessions.Create(ctx, 1, in); err != nil {
			t.Fatal(err)
		}
	}
	mk("2025-05-01T10:00:00Z", "2025-05-01T10:25:00Z", "")
	mk("2025-05-02T10:00:00Z", "2025-05-02T10:50:00Z", "")
	mk("2025-05-03T10:00:00Z", "2025-05-03T10:26:00Z", "")
	mk("2025-05-04T10:00:00Z", "2025-05-04T10:10:00Z", "Cancelado")

	st, err := env.stats.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalSessions != 4 || st.CompletedSessions != 3 || st.TotalMinutes != 101 {
		t.Fatalf("totals = %+v", st)
	}
	if st.TotalHours != 1.68 || st.AverageMinutes != 33.67 {
		t.Fatalf("rounded values = %v h, %v avg", st.TotalHours, st.AverageMinutes)
	}
	if len(st.ByTechnique) != 1 || st.ByTechnique[0].Sessions != 4 || st.ByTechnique[0].Minutes != 111 {
		t.Fatalf("breakdown must span all states: %+v", st.ByTechnique)
	}
}
