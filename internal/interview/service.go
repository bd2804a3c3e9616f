package interview

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FallbackAnswer is substituted when the completion provider returns an empty
// result. An empty-but-successful completion is not an error; the exchange
// still succeeds and this string is what gets appended to the history.
const FallbackAnswer = "I'm sorry, I don't have a good answer for that one. Could you rephrase the question?"

// minSweepInterval bounds how often the idle sweeper wakes up
const minSweepInterval = 30 * time.Second

// Completer produces the next assistant answer for a conversation transcript.
// The transcript always starts with the system turn and ends with the user's
// newest question.
type Completer interface {
	Complete(ctx context.Context, history []Turn) (string, error)
}

// DocumentStore persists uploaded source documents for the lifetime of their
// session
type DocumentStore interface {
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// ServiceConfig holds the tunables of the interview service
type ServiceConfig struct {
	HistoryCap int           // Maximum turns retained per session; defaults to DefaultHistoryCap
	IdleTTL    time.Duration // Sessions idle longer than this are evicted by the sweeper; 0 disables eviction
}

// Service orchestrates interview sessions: it owns no conversation state
// itself, it borrows state from the registry for the duration of a single
// operation
type Service struct {
	registry   *Registry
	completer  Completer
	documents  DocumentStore
	historyCap int
	idleTTL    time.Duration
	tracer     trace.Tracer
}

// NewService creates an interview service over the given collaborators
func NewService(cfg ServiceConfig, registry *Registry, completer Completer, documents DocumentStore) *Service {
	historyCap := cfg.HistoryCap
	if historyCap == 0 {
		historyCap = DefaultHistoryCap
	}

	return &Service{
		registry:   registry,
		completer:  completer,
		documents:  documents,
		historyCap: historyCap,
		idleTTL:    cfg.IdleTTL,
		tracer:     otel.Tracer("interview"),
	}
}

func documentKey(sessionID string) string {
	return "session:" + sessionID
}

// StartSession creates a new interview session from the uploaded document and
// returns its id. It fails only if the document cannot be persisted.
func (s *Service) StartSession(ctx context.Context, document string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "StartSession")
	defer span.End()

	id, err := s.registry.Create(document)
	if err != nil {
		return "", err
	}

	if err := s.documents.Set(ctx, documentKey(id), document); err != nil {
		// Don't leave a session behind whose document was never stored
		s.registry.Delete(id)
		log.Printf("Failed to persist document for session %s: %v", id, err)
		return "", ErrStorageFailure
	}

	span.SetAttributes(attribute.String("session.id", id))
	log.Printf("Started session %s (%d byte document)", id, len(document))
	return id, nil
}

// AskQuestion runs one question/answer exchange against the session. The
// exchange is atomic: on any failure the session's history is left unchanged.
// Unknown ids fail with ErrSessionExpired whether they never existed or were
// already ended.
func (s *Service) AskQuestion(ctx context.Context, sessionID string, question string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AskQuestion",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	// Hold the session's exclusive lock for the whole exchange, including the
	// completion call, so concurrent asks on one session serialize. Other
	// sessions proceed independently.
	release, ok := s.registry.Lock(sessionID)
	if !ok {
		return "", ErrSessionExpired
	}
	defer release()

	state, ok := s.registry.Get(sessionID)
	if !ok {
		return "", ErrSessionExpired
	}

	history := append(state.Messages, Turn{Role: RoleUser, Content: question})

	answer, err := s.completer.Complete(ctx, history)
	if err != nil {
		log.Printf("Completion failed for session %s: %v", sessionID, err)
		return "", ErrCompletionFailed
	}
	if answer == "" {
		answer = FallbackAnswer
	}

	state.Messages = TruncateHistory(append(history, Turn{Role: RoleAssistant, Content: answer}), s.historyCap)
	state.LastActiveAt = time.Now()

	if err := s.registry.Update(sessionID, state); err != nil {
		// The session was ended while the completion call was in flight
		return "", ErrSessionExpired
	}

	return answer, nil
}

// EndSession deletes the session and its stored document. It is idempotent:
// ending an unknown or already-ended session is a no-op.
func (s *Service) EndSession(ctx context.Context, sessionID string) {
	ctx, span := s.tracer.Start(ctx, "EndSession",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	s.registry.Delete(sessionID)
	if err := s.documents.Delete(ctx, documentKey(sessionID)); err != nil {
		log.Printf("Failed to delete document for session %s: %v", sessionID, err)
	}
}

// RunIdleSweeper periodically evicts sessions idle longer than the configured
// TTL, until the context is cancelled. It returns immediately if eviction is
// disabled.
func (s *Service) RunIdleSweeper(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}

	interval := s.idleTTL / 4
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	log.Printf("Idle session sweeper running (ttl %s, interval %s)", s.idleTTL, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepIdle(ctx)
		}
	}
}

func (s *Service) sweepIdle(ctx context.Context) {
	evicted := s.registry.EvictIdle(time.Now().Add(-s.idleTTL))
	for _, id := range evicted {
		if err := s.documents.Delete(ctx, documentKey(id)); err != nil {
			log.Printf("Failed to delete document for evicted session %s: %v", id, err)
		}
	}
	if len(evicted) > 0 {
		log.Printf("Evicted %d idle sessions", len(evicted))
	}
}
