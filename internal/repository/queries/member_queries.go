package queries

const (
	QueryGetMember = `
		SELECT room_id, user_id, role, active, joined_at
		FROM room_members
		WHERE room_id = $1 AND user_id = $2;
	`
	QueryAddMember = `
		INSERT INTO room_members (room_id, user_id, role, active)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at;
	`

	QuerySetMemberActive    = `UPDATE room_members SET active = $3 WHERE room_id = $1 AND user_id = $2;`
	QuerySetMemberRole      = `UPDATE room_members SET role = $3 WHERE room_id = $1 AND user_id = $2;`
	QueryDeactivateMembers  = `UPDATE room_members SET active = FALSE WHERE room_id = $1;`
	QueryCountActiveMembers = `SELECT COUNT(*) FROM room_members WHERE room_id = $1 AND active;`

	QueryCountActiveLeaders = `
		SELECT COUNT(*)
		FROM room_members
		WHERE room_id = $1 AND active AND role = 'leader' AND user_id <> $2;
	`
	QueryFirstActiveGuest = `
		SELECT room_id, user_id, role, active, joined_at
		FROM room_members
		WHERE room_id = $1 AND active AND role = 'guest'
		ORDER BY joined_at ASC, user_id ASC
		LIMIT 1;
	`
	QueryListActiveParticipants = `
		SELECT m.user_id, u.display_name, u.avatar_url, m.role, m.joined_at
		FROM room_members AS m
		LEFT JOIN users AS u ON u.id = m.user_id
		WHERE m.room_id = $1 AND m.active
		ORDER BY m.joined_at ASC, m.user_id ASC;
	`
)
