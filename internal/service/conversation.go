package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks mentordesk/internal/service Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_transcript_store.go -package=mocks mentordesk/internal/service TranscriptStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_service.go -package=mocks -mock_names=ConversationService=MockConversationService mentordesk/internal/service ConversationService

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mentordesk/internal/contextutil"
	"mentordesk/internal/gemini"
	"mentordesk/internal/persona"
	"mentordesk/internal/storage"
)

// FallbackReply is appended when a successful provider response carries no
// extractable text.
const FallbackReply = "Sorry, I could not generate a response. Please try again."

// Generator is the outbound generation call.
// This interface is defined from the service layer's perspective (consumer-first).
type Generator interface {
	// GenerateContent sends a generation request for the given model and
	// returns the parsed provider response.
	GenerateContent(ctx context.Context, model string, body any) (*gemini.GenerateResponse, error)
}

// TranscriptStore mirrors conversation turns into durable storage.
// Persistence is best effort: the orchestrator logs failures and continues.
type TranscriptStore interface {
	SaveConversation(ctx context.Context, rec *storage.ConversationRecord) error
	SaveMessage(ctx context.Context, rec *storage.MessageRecord) error
}

// Role identifies which side of the conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable turn in a conversation transcript.
type Message struct {
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	SequenceID int    `json:"sequenceId"`
}

// ConversationInfo describes a conversation without its transcript.
type ConversationInfo struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationService manages conversation transcripts and drives
// generation requests against the configured model.
type ConversationService interface {
	// Create provisions a conversation bound to a persona.
	Create(ctx context.Context, personaID string) (ConversationInfo, error)
	// AppendUserMessage records a user turn and, unless a generation call is
	// already in flight for the conversation, requests an assistant reply.
	// Empty or whitespace-only text is rejected without touching history.
	AppendUserMessage(ctx context.Context, conversationID, text string) error
	// Transcript returns the conversation header and its ordered messages.
	Transcript(ctx context.Context, conversationID string) (ConversationInfo, []Message, error)
}

// conversation is the in-memory state for one session.
type conversation struct {
	info    ConversationInfo
	mu      sync.Mutex
	history []Message
	nextSeq int
	// busy marks an in-flight generation call; pending queues exactly one
	// follow-up cycle for user turns that arrived while busy.
	busy    bool
	pending bool
}

// appendLocked adds a turn and returns it. Caller holds c.mu.
func (c *conversation) appendLocked(role Role, content string) Message {
	msg := Message{Role: role, Content: content, SequenceID: c.nextSeq}
	c.nextSeq++
	c.history = append(c.history, msg)
	return msg
}

// conversationService implements ConversationService.
type conversationService struct {
	generator Generator
	personas  persona.Store
	records   TranscriptStore // optional; nil disables persistence
	model     string
	logger    *slog.Logger

	mu            sync.RWMutex
	conversations map[string]*conversation
}

// NewConversationService creates a new ConversationService driving the given
// model. records may be nil when no transcript store is configured.
func NewConversationService(generator Generator, personas persona.Store, records TranscriptStore, model string) ConversationService {
	return &conversationService{
		generator:     generator,
		personas:      personas,
		records:       records,
		model:         model,
		logger:        slog.Default(),
		conversations: make(map[string]*conversation),
	}
}

// HistoryContents maps transcript messages to provider-shaped turns.
// Entries outside {user, assistant} are dropped and assistant is rewritten
// to the provider's "model" role. The mapping is pure: re-running it on the
// same history yields an identical result.
func HistoryContents(history []Message) []gemini.Content {
	contents := make([]gemini.Content, 0, len(history))
	for _, msg := range history {
		var role string
		switch msg.Role {
		case RoleUser:
			role = gemini.RoleUser
		case RoleAssistant:
			role = gemini.RoleModel
		default:
			continue
		}
		contents = append(contents, gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: msg.Content}},
		})
	}
	return contents
}

func (s *conversationService) Create(ctx context.Context, personaID string) (ConversationInfo, error) {
	logger := contextutil.LoggerFromContext(ctx)

	p, ok := s.personas.FindByID(personaID)
	if !ok {
		logger.WarnContext(ctx, "unknown persona requested", "persona_id", personaID)
		return ConversationInfo{}, ErrPersonaNotFound
	}

	conv := &conversation{
		info: ConversationInfo{
			ID:        uuid.NewString(),
			PersonaID: p.ID,
			CreatedAt: time.Now().UTC(),
		},
		nextSeq: 1,
	}
	if p.OpeningLine != "" {
		conv.appendLocked(RoleAssistant, p.OpeningLine)
	}

	s.mu.Lock()
	s.conversations[conv.info.ID] = conv
	s.mu.Unlock()

	s.persistConversation(ctx, conv.info)
	for _, msg := range conv.history {
		s.persistMessage(ctx, conv.info.ID, msg)
	}

	logger.InfoContext(ctx, "conversation created", "conversation_id", conv.info.ID, "persona_id", p.ID)
	return conv.info, nil
}

func (s *conversationService) AppendUserMessage(ctx context.Context, conversationID, text string) error {
	logger := contextutil.LoggerFromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		logger.WarnContext(ctx, "empty message rejected", "conversation_id", conversationID)
		return &ValidationError{Field: "message", Message: "cannot be empty"}
	}

	conv, err := s.find(conversationID)
	if err != nil {
		return err
	}

	p, ok := s.personas.FindByID(conv.info.PersonaID)
	if !ok {
		// Personas are static; a missing one here means a seeding bug.
		return ErrPersonaNotFound
	}

	conv.mu.Lock()
	msg := conv.appendLocked(RoleUser, text)
	if conv.busy {
		// A reply is already in flight; queue one follow-up cycle so this
		// turn is answered once the current call settles.
		conv.pending = true
		conv.mu.Unlock()
		s.persistMessage(ctx, conv.info.ID, msg)
		logger.InfoContext(ctx, "user message queued behind in-flight reply",
			"conversation_id", conv.info.ID, "seq", msg.SequenceID)
		return nil
	}
	conv.busy = true
	conv.mu.Unlock()

	s.persistMessage(ctx, conv.info.ID, msg)
	s.requestReply(ctx, conv, p)
	return nil
}

// requestReply runs generation cycles until no pending user turns remain.
// The conversation lock is never held across the network call; busy is
// cleared on both success and failure paths.
func (s *conversationService) requestReply(ctx context.Context, conv *conversation, p persona.Persona) {
	logger := contextutil.LoggerFromContext(ctx)

	// An accepted turn gets its reply even if the originating request is
	// canceled mid-flight; the client timeout still bounds the call.
	callCtx := context.WithoutCancel(ctx)

	for {
		conv.mu.Lock()
		history := make([]Message, len(conv.history))
		copy(history, conv.history)
		conv.mu.Unlock()

		req := &gemini.GenerateRequest{
			Contents:          HistoryContents(history),
			SystemInstruction: p.SystemInstruction(),
			GenerationConfig:  &p.GenerationConfig,
		}

		var reply string
		resp, err := s.generator.GenerateContent(callCtx, s.model, req)
		if err != nil {
			// Failures become visible assistant turns; the conversation
			// stays usable and the user may simply resubmit.
			logger.ErrorContext(ctx, "generation failed",
				"conversation_id", conv.info.ID, "error", err)
			reply = errorReply(err)
		} else {
			reply = resp.FirstCandidateText()
			if reply == "" {
				logger.WarnContext(ctx, "provider response carried no text",
					"conversation_id", conv.info.ID)
				reply = FallbackReply
			}
		}

		conv.mu.Lock()
		msg := conv.appendLocked(RoleAssistant, reply)
		more := conv.pending
		conv.pending = false
		if !more {
			conv.busy = false
		}
		conv.mu.Unlock()

		s.persistMessage(callCtx, conv.info.ID, msg)

		if !more {
			return
		}
	}
}

func (s *conversationService) Transcript(ctx context.Context, conversationID string) (ConversationInfo, []Message, error) {
	conv, err := s.find(conversationID)
	if err != nil {
		return ConversationInfo{}, nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	history := make([]Message, len(conv.history))
	copy(history, conv.history)
	return conv.info, history, nil
}

func (s *conversationService) find(id string) (*conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// persistConversation mirrors a conversation header to the transcript store.
func (s *conversationService) persistConversation(ctx context.Context, info ConversationInfo) {
	if s.records == nil {
		return
	}
	rec := &storage.ConversationRecord{
		ID:        info.ID,
		PersonaID: info.PersonaID,
		CreatedAt: info.CreatedAt,
	}
	if err := s.records.SaveConversation(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"failed to persist conversation", "conversation_id", info.ID, "error", err)
	}
}

// persistMessage mirrors one turn to the transcript store.
func (s *conversationService) persistMessage(ctx context.Context, conversationID string, msg Message) {
	if s.records == nil {
		return
	}
	rec := &storage.MessageRecord{
		ConversationID: conversationID,
		Seq:            msg.SequenceID,
		Role:           string(msg.Role),
		Content:        msg.Content,
	}
	if err := s.records.SaveMessage(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx,
			"failed to persist message", "conversation_id", conversationID,
			"seq", msg.SequenceID, "error", err)
	}
}

// errorReply formats a generation failure as a displayable assistant turn.
func errorReply(err error) string {
	msg := err.Error()
	var upstream *gemini.UpstreamError
	if errors.As(err, &upstream) {
		msg = upstream.Message
	}
	return "Error: " + msg + ". Please check your API key configuration or try again later."
}
