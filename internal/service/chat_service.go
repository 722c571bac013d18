package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/mapper"
	"community-resources-be/internal/metrics"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/chat/executor"
	"community-resources-be/pkg/chat/session"
	"community-resources-be/pkg/chat/state"
	"community-resources-be/pkg/dayrange"
	"community-resources-be/pkg/events"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
	"community-resources-be/pkg/store"
)

const chatModule = "ChatService"

var zipRe = regexp.MustCompile(`^\d{5}$`)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error)
	ConnectSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error)
	SubmitQuery(ctx context.Context, sessionId string, text string) (*dto.ChatReplyResponse, error)
	TogglePin(ctx context.Context, sessionId string, recordId string) (*dto.TogglePinResponse, error)
	ResetSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error)
	SwitchCategory(ctx context.Context, sessionId string, category string) (*dto.ChatSessionResponse, error)
	SetExplicitFilters(ctx context.Context, sessionId string, req *dto.SetFiltersRequest) (*dto.ChatSessionResponse, error)
}

type chatService struct {
	sessions        *session.Manager
	states          *state.Manager
	executor        *executor.Executor
	datasets        IDatasetService
	transcript      IPublisherService
	mapper          *mapper.ChatMapper
	metrics         *metrics.Metrics
	logger          logger.ILogger
	defaultCategory resource.Category
	now             func() time.Time
}

func NewChatService(
	sessions *session.Manager,
	datasets IDatasetService,
	transcript IPublisherService,
	pageSize int,
	m *metrics.Metrics,
	log logger.ILogger,
) IChatService {
	states := state.NewManager(log)
	return &chatService{
		sessions:        sessions,
		states:          states,
		executor:        executor.NewExecutor(datasets, states, pageSize, log),
		datasets:        datasets,
		transcript:      transcript,
		mapper:          mapper.NewChatMapper(),
		metrics:         m,
		logger:          log,
		defaultCategory: resource.Healthcare,
		now:             time.Now,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	c := s.defaultCategory
	if req != nil && strings.TrimSpace(req.Category) != "" {
		parsed, err := resource.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		c = parsed
	}

	sess := s.sessions.Create(c)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Count()))
	s.logger.Info(chatModule, "Session created", map[string]interface{}{"session_id": sess.ID, "category": c})
	return s.mapper.SessionToResponse(sess), nil
}

// ConnectSession resumes a session or starts one under the given id.
func (s *chatService) ConnectSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error) {
	if strings.TrimSpace(sessionId) == "" {
		return nil, session.ErrSessionNotFound
	}
	sess := s.sessions.LoadOrCreate(sessionId, s.defaultCategory)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Count()))
	return s.mapper.SessionToResponse(sess), nil
}

func (s *chatService) GetSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error) {
	sess, err := s.sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}
	return s.mapper.SessionToResponse(sess), nil
}

// SubmitQuery runs one conversational turn.
func (s *chatService) SubmitQuery(ctx context.Context, sessionId string, text string) (*dto.ChatReplyResponse, error) {
	var reply executor.Reply
	sess, err := s.sessions.Turn(sessionId, text, func(next *store.Session) error {
		r, err := s.executor.Run(ctx, next, text, s.now())
		if err != nil {
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			s.logger.Error(chatModule, "Turn failed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		}
		return nil, err
	}

	s.metrics.TurnsTotal.WithLabelValues(string(reply.Category), string(reply.Kind)).Inc()
	if reply.Kind == executor.KindCorrectionPrompt {
		s.metrics.CorrectionPrompts.WithLabelValues(string(reply.Category)).Inc()
	}

	if err := s.transcript.PublishTranscript(ctx, s.mapper.TranscriptEntry(sess, text, reply)); err != nil {
		s.logger.Warn(chatModule, "Failed to publish transcript entry", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}

	return s.mapper.ReplyToResponse(sess, reply), nil
}

// TogglePin pins a record or unpins it if it is already pinned. Only
// records present in their category's dataset can be pinned.
func (s *chatService) TogglePin(ctx context.Context, sessionId string, recordId string) (*dto.TogglePinResponse, error) {
	if _, err := s.sessions.Get(sessionId); err != nil {
		return nil, err
	}

	c, ok := resource.CategoryForID(recordId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", resource.ErrRecordNotFound, recordId)
	}
	ds, err := s.datasets.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	rec, ok := ds.Record(recordId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", resource.ErrRecordNotFound, recordId)
	}

	pin := store.Pin{Category: c, RecordID: rec.ID, Name: rec.Name, Website: rec.Website, Phone: rec.Phone}
	var pinned bool
	sess, err := s.sessions.Update(sessionId, func(next *store.Session) error {
		if i := next.PinIndex(recordId); i >= 0 {
			next.Pins = append(next.Pins[:i:i], next.Pins[i+1:]...)
			pinned = false
			return nil
		}
		next.Pins = append(next.Pins, pin)
		pinned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.TogglePinResponse{Pinned: pinned, Pin: pin, Pins: sess.Pins}, nil
}

// ResetSession clears the session and drops the active category's cached
// dataset so the next query fetches it again.
func (s *chatService) ResetSession(ctx context.Context, sessionId string) (*dto.ChatSessionResponse, error) {
	sess, err := s.sessions.Update(sessionId, func(next *store.Session) error {
		next.Reset(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.datasets.Invalidate(ctx, sess.Category, events.ReasonReset); err != nil {
		s.logger.Warn(chatModule, "Failed to invalidate dataset on reset", map[string]interface{}{
			"session_id": sessionId,
			"category":   sess.Category,
			"error":      err.Error(),
		})
	}
	s.logger.Info(chatModule, "Session reset", map[string]interface{}{"session_id": sessionId})
	return s.mapper.SessionToResponse(sess), nil
}

// SwitchCategory moves the session to another category. What was shown
// before is forgotten; pins and history stay.
func (s *chatService) SwitchCategory(ctx context.Context, sessionId string, category string) (*dto.ChatSessionResponse, error) {
	c, err := resource.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Update(sessionId, func(next *store.Session) error {
		if next.Category == c {
			return nil
		}
		next.Category = c
		next.ClearBrowsing()
		next.ExplicitFilters.Service = ""
		s.states.TransitionToIdle(next, "category switch")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.mapper.SessionToResponse(sess), nil
}

// SetExplicitFilters validates and replaces the explicit filters. On any
// invalid value nothing changes.
func (s *chatService) SetExplicitFilters(ctx context.Context, sessionId string, req *dto.SetFiltersRequest) (*dto.ChatSessionResponse, error) {
	sess, err := s.sessions.Update(sessionId, func(next *store.Session) error {
		f, err := parseFilters(next.Category, req)
		if err != nil {
			return err
		}
		next.ExplicitFilters = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.mapper.SessionToResponse(sess), nil
}

func parseFilters(c resource.Category, req *dto.SetFiltersRequest) (search.Filters, error) {
	var f search.Filters
	if req == nil {
		return f, nil
	}

	if zip := strings.TrimSpace(req.Zip); zip != "" {
		if !zipRe.MatchString(zip) {
			return f, &resource.InvalidFilterError{Field: "zip", Value: req.Zip, Reason: "must be a 5-digit ZIP code"}
		}
		f.ZIP = zip
	}

	if days := strings.TrimSpace(req.Days); days != "" {
		set, err := dayrange.Resolve(days)
		if err != nil || set.IsEmpty() {
			return f, &resource.InvalidFilterError{Field: "days", Value: req.Days, Reason: "expected day names or ranges such as Mon-Fri"}
		}
		f.Days = set
	}

	if svc := strings.ToLower(strings.TrimSpace(req.Service)); svc != "" {
		tag, ok := resource.VocabularyFor(c).Lookup(svc)
		if !ok {
			return f, &resource.InvalidFilterError{Field: "service", Value: req.Service, Reason: "not a " + c.DisplayName() + " service"}
		}
		f.Service = tag
	}

	if lang := strings.TrimSpace(req.Language); lang != "" {
		normalized, ok := resource.NormalizeLanguage(lang)
		if !ok {
			return f, &resource.InvalidFilterError{Field: "language", Value: req.Language, Reason: "unknown language"}
		}
		f.Language = normalized
	}

	return f, nil
}
