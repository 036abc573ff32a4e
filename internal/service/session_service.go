package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/repository"

	"github.com/google/uuid"
)

type SessionService struct {
	store repository.Store
	now   func() time.Time
	loc   *time.Location
}

func NewSessionService(store repository.Store) *SessionService {
	return &SessionService{store: store, now: time.Now, loc: time.Local}
}

// SetLocation задаёт зону, в которой читаются даты фильтров from/to.
func (s *SessionService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

type ListSessionsInput struct {
	TechniqueID string
	State       string
	IsGroup     string
	From        string
	To          string
}

type CreateSessionInput struct {
	TechniqueID string
	Start       *string
	End         *string
	IsGroup     bool
	State       *string
	Parameters  []domain.ParameterInput
	RoomIDs     []string
}

type StartSessionInput struct {
	TechniqueID string
	IsGroup     bool
	Parameters  []domain.ParameterInput
	RoomIDs     []string
}

// UpdateSessionInput: неизвестное State молча игнорируется, End с явным null
// сбрасывает конец и длительность, заданный Parameters заменяет набор целиком.
type UpdateSessionInput struct {
	State      *string
	End        domain.Optional[string]
	Parameters domain.Optional[[]domain.ParameterInput]
}

func (s *SessionService) List(ctx context.Context, userID domain.UserID, in ListSessionsInput) ([]domain.SessionDetails, error) {
	f, err := s.filter(in)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.Sessions().List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.List: %w", err)
	}
	if len(sessions) == 0 {
		return []domain.SessionDetails{}, nil
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	techIDs := make([]uuid.UUID, 0, len(sessions))
	for _, ss := range sessions {
		ids = append(ids, ss.ID)
		techIDs = append(techIDs, ss.TechniqueID)
	}

	techniques, err := s.store.Techniques().GetMany(ctx, techIDs...)
	if err != nil {
		return nil, fmt.Errorf("techniqueRepo.GetMany: %w", err)
	}
	params, err := s.store.Sessions().Parameters(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.Parameters: %w", err)
	}

	out := make([]domain.SessionDetails, 0, len(sessions))
	for _, ss := range sessions {
		d := domain.SessionDetails{Session: ss, Parameters: nonNil(params[ss.ID])}
		if t, ok := techniques[ss.TechniqueID]; ok {
			d.Technique = &t
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *SessionService) filter(in ListSessionsInput) (domain.SessionFilter, error) {
	var f domain.SessionFilter

	if in.TechniqueID != "" {
		id, err := uuid.Parse(in.TechniqueID)
		if err != nil {
			return f, domain.ErrInvalidTechniqueFilter
		}
		f.TechniqueID = &id
	}
	if in.State != "" {
		// неизвестное состояние просто ничего не найдёт
		st := domain.SessionState(in.State)
		f.State = &st
	}
	if in.IsGroup != "" {
		g := strings.EqualFold(in.IsGroup, "true")
		f.IsGroup = &g
	}
	if in.From != "" {
		from, ok := parseDate(in.From, s.loc)
		if !ok {
			return f, domain.ErrInvalidFromDate
		}
		f.From = &from
	}
	if in.To != "" {
		to, ok := parseDate(in.To, s.loc)
		if !ok {
			return f, domain.ErrInvalidToDate
		}
		// граница исключающая: весь день to входит в выборку
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}
	return f, nil
}

// Get отдаёт сессию с техникой и параметрами; у групповой ещё и связанные комнаты.
func (s *SessionService) Get(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.SessionDetails, error) {
	ss, err := s.store.Sessions().Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.Get: %w", err)
	}

	d := &domain.SessionDetails{Session: *ss}

	t, err := s.store.Techniques().Get(ctx, ss.TechniqueID)
	switch {
	case err == nil:
		d.Technique = t
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("techniqueRepo.Get: %w", err)
	}

	params, err := s.store.Sessions().Parameters(ctx, ss.ID)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.Parameters: %w", err)
	}
	d.Parameters = nonNil(params[ss.ID])

	if ss.IsGroup {
		rooms, err := s.store.Sessions().LinkedRooms(ctx, ss.ID)
		if err != nil {
			return nil, fmt.Errorf("sessionRepo.LinkedRooms: %w", err)
		}
		d.Rooms = nonNil(rooms)
	}
	return d, nil
}

// Create записывает сессию задним числом: по умолчанию она сразу Completado.
func (s *SessionService) Create(ctx context.Context, userID domain.UserID, in CreateSessionInput) (*domain.Session, error) {
	techID, err := parseTechniqueID(in.TechniqueID)
	if err != nil {
		return nil, err
	}

	start := s.now().UTC()
	if in.Start != nil && *in.Start != "" {
		t, ok := parseTimestamp(*in.Start)
		if !ok {
			return nil, domain.ErrInvalidStart
		}
		start = t
	}

	ss := &domain.Session{
		ID:          uuid.New(),
		UserID:      userID,
		TechniqueID: techID,
		Start:       start,
		IsGroup:     in.IsGroup,
		State:       domain.StateCompleted,
	}

	if in.End != nil && *in.End != "" {
		end, ok := parseTimestamp(*in.End)
		if !ok {
			return nil, domain.ErrInvalidEnd
		}
		if !end.After(start) {
			return nil, domain.ErrEndBeforeStart
		}
		ss.SetEnd(&end)
	}

	if in.State != nil && *in.State != "" {
		st, ok := domain.ParseSessionState(*in.State)
		if !ok {
			return nil, domain.ErrInvalidState
		}
		ss.State = st
	}

	err = s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if err := requireTechnique(ctx, tx, techID); err != nil {
			return err
		}
		return s.insert(ctx, tx, ss, in.Parameters, in.RoomIDs)
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// Start открывает сессию EnEjecucion; у пользователя может быть только одна такая.
func (s *SessionService) Start(ctx context.Context, userID domain.UserID, in StartSessionInput) (*domain.Session, error) {
	techID, err := parseTechniqueID(in.TechniqueID)
	if err != nil {
		return nil, err
	}

	ss := &domain.Session{
		ID:          uuid.New(),
		UserID:      userID,
		TechniqueID: techID,
		Start:       s.now().UTC(),
		IsGroup:     in.IsGroup,
		State:       domain.StateRunning,
	}

	err = s.store.RunInTx(ctx, func(tx repository.Repos) error {
		running, err := tx.Sessions().HasRunning(ctx, userID)
		if err != nil {
			return fmt.Errorf("sessionRepo.HasRunning: %w", err)
		}
		if running {
			return domain.ErrSessionAlreadyRunning
		}
		if err := requireTechnique(ctx, tx, techID); err != nil {
			return err
		}
		return s.insert(ctx, tx, ss, in.Parameters, in.RoomIDs)
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// insert пишет сессию, её параметры и привязки к комнатам внутри tx.
// Комнаты, где у пользователя нет активного членства, пропускаются.
func (s *SessionService) insert(ctx context.Context, tx repository.Repos, ss *domain.Session, params []domain.ParameterInput, roomIDs []string) error {
	if err := tx.Sessions().Create(ctx, ss); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return domain.ErrSessionAlreadyRunning
		}
		return fmt.Errorf("sessionRepo.Create: %w", err)
	}
	if err := tx.Sessions().AddParameters(ctx, ss.ID, completeParams(params)); err != nil {
		return fmt.Errorf("sessionRepo.AddParameters: %w", err)
	}

	if !ss.IsGroup {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(roomIDs))
	for _, raw := range roomIDs {
		roomID, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if _, dup := seen[roomID]; dup {
			continue
		}
		seen[roomID] = struct{}{}

		ok, err := activeMember(ctx, tx, roomID, ss.UserID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := tx.Sessions().AddRoomLink(ctx, ss.ID, roomID); err != nil {
			return fmt.Errorf("sessionRepo.AddRoomLink: %w", err)
		}
	}
	return nil
}

// Finish завершает только запущенную сессию; чужая, несуществующая
// и не запущенная одинаково дают ErrRunningSessionNotFound.
func (s *SessionService) Finish(ctx context.Context, userID domain.UserID, id uuid.UUID) (*domain.Session, error) {
	var ss *domain.Session
	err := s.store.RunInTx(ctx, func(tx repository.Repos) error {
		var err error
		ss, err = tx.Sessions().GetForUpdate(ctx, userID, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrRunningSessionNotFound
			}
			return fmt.Errorf("sessionRepo.GetForUpdate: %w", err)
		}
		if ss.State != domain.StateRunning {
			return domain.ErrRunningSessionNotFound
		}

		end := s.now().UTC()
		if !end.After(ss.Start) {
			return domain.ErrEndBeforeStart
		}
		ss.SetEnd(&end)
		ss.State = domain.StateCompleted

		if err := tx.Sessions().Update(ctx, ss); err != nil {
			return fmt.Errorf("sessionRepo.Update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// Update не ограничивает переходы между состояниями: допустим любой из четырёх.
func (s *SessionService) Update(ctx context.Context, userID domain.UserID, id uuid.UUID, in UpdateSessionInput) (*domain.Session, error) {
	var ss *domain.Session
	err := s.store.RunInTx(ctx, func(tx repository.Repos) error {
		var err error
		ss, err = tx.Sessions().GetForUpdate(ctx, userID, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrSessionNotFound
			}
			return fmt.Errorf("sessionRepo.GetForUpdate: %w", err)
		}

		if in.State != nil {
			if st, ok := domain.ParseSessionState(*in.State); ok {
				ss.State = st
			}
		}

		if in.End.Set {
			if in.End.Value == nil || *in.End.Value == "" {
				ss.SetEnd(nil)
			} else {
				end, ok := parseTimestamp(*in.End.Value)
				if !ok {
					return domain.ErrInvalidEnd
				}
				if !end.After(ss.Start) {
					return domain.ErrEndBeforeStart
				}
				ss.SetEnd(&end)
			}
		}

		if err := tx.Sessions().Update(ctx, ss); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return domain.ErrSessionAlreadyRunning
			}
			return fmt.Errorf("sessionRepo.Update: %w", err)
		}

		if in.Parameters.Set {
			if err := tx.Sessions().DeleteParameters(ctx, ss.ID); err != nil {
				return fmt.Errorf("sessionRepo.DeleteParameters: %w", err)
			}
			var params []domain.ParameterInput
			if in.Parameters.Value != nil {
				params = completeParams(*in.Parameters.Value)
			}
			if err := tx.Sessions().AddParameters(ctx, ss.ID, params); err != nil {
				return fmt.Errorf("sessionRepo.AddParameters: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// Delete удаляет параметры, привязки к комнатам и саму сессию одной транзакцией.
func (s *SessionService) Delete(ctx context.Context, userID domain.UserID, id uuid.UUID) error {
	return s.store.RunInTx(ctx, func(tx repository.Repos) error {
		if _, err := tx.Sessions().GetForUpdate(ctx, userID, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrSessionNotFound
			}
			return fmt.Errorf("sessionRepo.GetForUpdate: %w", err)
		}

		if err := tx.Sessions().DeleteParameters(ctx, id); err != nil {
			return fmt.Errorf("sessionRepo.DeleteParameters: %w", err)
		}
		if err := tx.Sessions().DeleteRoomLinks(ctx, id); err != nil {
			return fmt.Errorf("sessionRepo.DeleteRoomLinks: %w", err)
		}
		if err := tx.Sessions().Delete(ctx, id); err != nil {
			return fmt.Errorf("sessionRepo.Delete: %w", err)
		}
		return nil
	})
}

func parseTechniqueID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.ErrTechniqueIDRequired
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidTechniqueID
	}
	return id, nil
}

func requireTechnique(ctx context.Context, r repository.Repos, id uuid.UUID) error {
	if _, err := r.Techniques().Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTechniqueNotFound
		}
		return fmt.Errorf("techniqueRepo.Get: %w", err)
	}
	return nil
}

func completeParams(in []domain.ParameterInput) []domain.ParameterInput {
	out := make([]domain.ParameterInput, 0, len(in))
	for _, p := range in {
		if p.Complete() {
			out = append(out, p)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
