package queries

const sessionColumns = `id, user_id, technique_id, started_at, ended_at, duration_minutes, is_group, state`

const (
	QueryCreateSession = `
		INSERT INTO sessions (id, user_id, technique_id, started_at, ended_at, duration_minutes, is_group, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	QueryGetSession          = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND user_id = $2;`
	QueryGetSessionForUpdate = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND user_id = $2 FOR UPDATE;`
	QueryHasRunningSession   = `SELECT EXISTS(SELECT 1 FROM sessions WHERE user_id = $1 AND state = 'EnEjecucion');`
	QueryDeleteSession       = `DELETE FROM sessions WHERE id = $1;`

	// Базовый запрос списка; фильтры дописываются в postgres.SessionRepo.List
	QueryListSessionsBase = `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1`

	QueryUpdateSession = `
		UPDATE sessions
		SET ended_at = $2, duration_minutes = $3, state = $4
		WHERE id = $1;
	`

	QueryInsertParameter  = `INSERT INTO session_parameters (session_id, code, quantity) VALUES ($1, $2, $3);`
	QueryDeleteParameters = `DELETE FROM session_parameters WHERE session_id = $1;`

	QueryListParameters = `
		SELECT session_id, code, quantity
		FROM session_parameters
		WHERE session_id = ANY($1)
		ORDER BY id;
	`

	QueryInsertRoomLink  = `INSERT INTO session_rooms (session_id, room_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	QueryDeleteRoomLinks = `DELETE FROM session_rooms WHERE session_id = $1;`

	QueryLinkedRooms = `
		SELECT r.id, r.name, r.description, r.max_participants, r.is_private, r.access_code, r.created_at
		FROM session_rooms AS sr
		JOIN rooms AS r ON r.id = sr.room_id
		WHERE sr.session_id = $1
		ORDER BY r.name;
	`
)
