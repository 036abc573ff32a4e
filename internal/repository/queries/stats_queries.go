package queries

const (
	// AVG/SUM игнорируют NULL: завершённые сессии без длительности в среднее не попадают
	QuerySessionTotals = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE state = 'Completado'),
			COALESCE(SUM(duration_minutes) FILTER (WHERE state = 'Completado'), 0)::bigint,
			COALESCE(AVG(duration_minutes) FILTER (WHERE state = 'Completado'), 0)::float8
		FROM sessions
		WHERE user_id = $1;
	`
	QuerySessionsByTechnique = `
		SELECT t.name, COUNT(s.id), COALESCE(SUM(s.duration_minutes), 0)::bigint
		FROM sessions AS s
		JOIN techniques AS t ON t.id = s.technique_id
		WHERE s.user_id = $1
		GROUP BY t.id, t.name
		ORDER BY t.name;
	`
)
