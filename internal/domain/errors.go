package domain

import "github.com/cwrk-planet/practice-service/internal/errs"

var (
	ErrRoomNotFound     = errs.NotFound("room not found")
	ErrRoomNameRequired = errs.Invalid("room name is required")
	ErrRoomIDRequired   = errs.Invalid("room id is required")
	ErrInvalidRoomID    = errs.Invalid("invalid room id")
	ErrRoomFull         = errs.Invalid("room has reached its participant limit")
	ErrAlreadyJoined    = errs.Invalid("already a member of this room")
	ErrNotInRoom        = errs.Invalid("not a member of this room")
	ErrWrongAccessCode  = errs.Forbidden("wrong access code")
	ErrRoomAccessDenied = errs.Forbidden("no access to this room")
	ErrNotRoomLeader    = errs.Forbidden("only the room leader can do this")
	ErrInvalidCapacity  = errs.Invalid("max_participants must not be negative")

	ErrSessionNotFound        = errs.NotFound("session not found")
	ErrRunningSessionNotFound = errs.NotFound("running session not found")
	ErrSessionAlreadyRunning  = errs.Invalid("a session is already running")
	ErrTechniqueIDRequired    = errs.Invalid("technique id is required")
	ErrInvalidTechniqueID     = errs.Invalid("invalid technique id")
	ErrTechniqueNotFound      = errs.NotFound("technique not found")
	ErrInvalidStart           = errs.Invalid("invalid start timestamp")
	ErrInvalidEnd             = errs.Invalid("invalid end timestamp")
	ErrEndBeforeStart         = errs.Invalid("end must be after start")
	ErrInvalidState           = errs.Invalid("unknown session state")
	ErrInvalidTechniqueFilter = errs.Invalid("invalid technique_id filter")
	ErrInvalidFromDate        = errs.Invalid("invalid from date (YYYY-MM-DD)")
	ErrInvalidToDate          = errs.Invalid("invalid to date (YYYY-MM-DD)")
)
