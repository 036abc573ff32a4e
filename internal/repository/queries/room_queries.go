package queries

const roomColumns = `id, name, description, max_participants, is_private, access_code, created_at`

const (
	QueryCreateRoom = `
		INSERT INTO rooms (id, name, description, max_participants, is_private, access_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at;
	`

	QueryGetRoom          = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1;`
	QueryGetRoomForUpdate = `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE;`
	QueryDeleteRoom       = `DELETE FROM rooms WHERE id = $1;`

	QueryUpdateRoom = `
		UPDATE rooms
		SET name = $2, description = $3, max_participants = $4, is_private = $5, access_code = $6
		WHERE id = $1;
	`
	QueryListRoomsByMember = `
		SELECT r.id, r.name, r.description, r.max_participants, r.is_private, r.access_code, r.created_at
		FROM rooms AS r
		JOIN room_members AS m ON m.room_id = r.id
		WHERE m.user_id = $1 AND m.active
		ORDER BY r.created_at DESC, r.id;
	`
	QueryListPublicRooms = `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE NOT is_private
		ORDER BY created_at DESC, id;
	`
)
