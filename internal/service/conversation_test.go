package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/mock/gomock"

	"mentordesk/internal/gemini"
	"mentordesk/internal/persona"
	"mentordesk/internal/service"
	"mentordesk/internal/service/mocks"
)

func init() {
	// Discard service logs for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const testModel = "gemini-2.0-flash-exp"

func testPersonas() persona.Store {
	return persona.NewMemoryStore([]persona.Persona{
		{
			ID:           "mentor",
			Name:         "Mentor",
			OpeningLine:  "Hello! What would you like to learn?",
			SystemPrompt: "Be a helpful mentor.",
			GenerationConfig: gemini.GenerationConfig{
				Temperature:     0.7,
				TopK:            40,
				TopP:            0.95,
				MaxOutputTokens: 512,
			},
		},
		{
			ID:           "coach",
			Name:         "Coach",
			SystemPrompt: "Grade answers.",
		},
	})
}

func textResponse(text string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{
			{Content: gemini.Content{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: text}}}},
		},
	}
}

func TestConversationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewConversationService(mocks.NewMockGenerator(ctrl), testPersonas(), nil, testModel)

	info, err := svc.Create(context.Background(), "mentor")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if info.ID == "" {
		t.Error("Create() returned empty conversation id")
	}
	if info.PersonaID != "mentor" {
		t.Errorf("Create() PersonaID = %q, want mentor", info.PersonaID)
	}

	_, messages, err := svc.Transcript(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Transcript() returned %d messages, want 1 (opening line)", len(messages))
	}
	if messages[0].Role != service.RoleAssistant || messages[0].Content != "Hello! What would you like to learn?" {
		t.Errorf("opening message = %+v", messages[0])
	}
	if messages[0].SequenceID != 1 {
		t.Errorf("opening message SequenceID = %d, want 1", messages[0].SequenceID)
	}
}

func TestConversationService_Create_UnknownPersona(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewConversationService(mocks.NewMockGenerator(ctrl), testPersonas(), nil, testModel)

	_, err := svc.Create(context.Background(), "nope")
	if !errors.Is(err, service.ErrPersonaNotFound) {
		t.Errorf("Create() error = %v, want ErrPersonaNotFound", err)
	}
}

func TestConversationService_Transcript_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewConversationService(mocks.NewMockGenerator(ctrl), testPersonas(), nil, testModel)

	_, _, err := svc.Transcript(context.Background(), "missing")
	if !errors.Is(err, service.ErrConversationNotFound) {
		t.Errorf("Transcript() error = %v, want ErrConversationNotFound", err)
	}
}

func TestConversationService_AppendUserMessage_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGenerator := mocks.NewMockGenerator(ctrl)
	svc := service.NewConversationService(mockGenerator, testPersonas(), nil, testModel)

	info, err := svc.Create(context.Background(), "mentor")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	mockGenerator.EXPECT().
		GenerateContent(gomock.Any(), testModel, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (*gemini.GenerateResponse, error) {
			req, ok := body.(*gemini.GenerateRequest)
			if !ok {
				t.Fatalf("body type = %T, want *gemini.GenerateRequest", body)
			}
			// Opening line maps to "model", the new user turn to "user".
			if len(req.Contents) != 2 {
				t.Fatalf("contents length = %d, want 2", len(req.Contents))
			}
			if req.Contents[0].Role != gemini.RoleModel || req.Contents[1].Role != gemini.RoleUser {
				t.Errorf("content roles = %q, %q", req.Contents[0].Role, req.Contents[1].Role)
			}
			if req.Contents[1].Parts[0].Text != "What is pandas?" {
				t.Errorf("user turn text = %q", req.Contents[1].Parts[0].Text)
			}
			if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "Be a helpful mentor." {
				t.Error("system instruction not set from persona")
			}
			if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 512 {
				t.Error("generation config not set from persona")
			}
			return textResponse("X"), nil
		})

	if err := svc.AppendUserMessage(context.Background(), info.ID, "What is pandas?"); err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}

	_, messages, err := svc.Transcript(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(messages))
	}
	last := messages[2]
	if last.Role != service.RoleAssistant || last.Content != "X" {
		t.Errorf("assistant reply = %+v, want content X", last)
	}
	for i, msg := range messages {
		if msg.SequenceID != i+1 {
			t.Errorf("message %d SequenceID = %d, want %d", i, msg.SequenceID, i+1)
		}
	}
}

func TestConversationService_AppendUserMessage_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No generator calls expected
	svc := service.NewConversationService(mocks.NewMockGenerator(ctrl), testPersonas(), nil, testModel)

	info, err := svc.Create(context.Background(), "mentor")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, input := range []string{"", "   ", "\n\t "} {
		err := svc.AppendUserMessage(context.Background(), info.ID, input)
		var validationErr *service.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("AppendUserMessage(%q) error = %v, want ValidationError", input, err)
		}
	}

	_, messages, err := svc.Transcript(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("transcript length = %d, want 1 (history unchanged)", len(messages))
	}
}

func TestConversationService_AppendUserMessage_UnknownConversation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewConversationService(mocks.NewMockGenerator(ctrl), testPersonas(), nil, testModel)

	err := svc.AppendUserMessage(context.Background(), "missing", "hello")
	if !errors.Is(err, service.ErrConversationNotFound) {
		t.Errorf("AppendUserMessage() error = %v, want ErrConversationNotFound", err)
	}
}

func TestConversationService_FallbackOnEmptyResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGenerator := mocks.NewMockGenerator(ctrl)
	mockGenerator.EXPECT().
		GenerateContent(gomock.Any(), testModel, gomock.Any()).
		Return(&gemini.GenerateResponse{}, nil)

	svc := service.NewConversationService(mockGenerator, testPersonas(), nil, testModel)

	info, _ := svc.Create(context.Background(), "coach")
	if err := svc.AppendUserMessage(context.Background(), info.ID, "hello"); err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}

	_, messages, _ := svc.Transcript(context.Background(), info.ID)
	last := messages[len(messages)-1]
	if last.Role != service.RoleAssistant || last.Content != service.FallbackReply {
		t.Errorf("assistant reply = %+v, want fallback", last)
	}
}

func TestConversationService_FailureDowngradedToTranscript(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantContains string
	}{
		{
			name:         "upstream error keeps provider message",
			err:          &gemini.UpstreamError{StatusCode: http.StatusServiceUnavailable, Message: "overloaded"},
			wantContains: "Error: overloaded. Please check your API key configuration or try again later.",
		},
		{
			name:         "transport error keeps error text",
			err:          errors.New("connection refused"),
			wantContains: "Error: connection refused. Please check your API key configuration or try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGenerator := mocks.NewMockGenerator(ctrl)
			mockGenerator.EXPECT().
				GenerateContent(gomock.Any(), testModel, gomock.Any()).
				Return(nil, tt.err)

			svc := service.NewConversationService(mockGenerator, testPersonas(), nil, testModel)

			info, _ := svc.Create(context.Background(), "coach")
			if err := svc.AppendUserMessage(context.Background(), info.ID, "hello"); err != nil {
				t.Fatalf("AppendUserMessage() should not propagate generation failures, got %v", err)
			}

			_, messages, _ := svc.Transcript(context.Background(), info.ID)
			last := messages[len(messages)-1]
			if last.Role != service.RoleAssistant {
				t.Errorf("failure turn role = %q, want assistant", last.Role)
			}
			if last.Content != tt.wantContains {
				t.Errorf("failure turn content = %q, want %q", last.Content, tt.wantContains)
			}

			// The conversation stays usable after an error.
			mockGenerator.EXPECT().
				GenerateContent(gomock.Any(), testModel, gomock.Any()).
				Return(textResponse("recovered"), nil)
			if err := svc.AppendUserMessage(context.Background(), info.ID, "again"); err != nil {
				t.Fatalf("AppendUserMessage() after failure error = %v", err)
			}
			_, messages, _ = svc.Transcript(context.Background(), info.ID)
			if messages[len(messages)-1].Content != "recovered" {
				t.Error("conversation did not recover after a failed turn")
			}
		})
	}
}

func TestConversationService_NoOverlappingCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var (
		inFlight   atomic.Int32
		calls      atomic.Int32
		firstEntry = make(chan struct{})
		release    = make(chan struct{})
		releaseOne sync.Once
	)

	mockGenerator := mocks.NewMockGenerator(ctrl)
	mockGenerator.EXPECT().
		GenerateContent(gomock.Any(), testModel, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ any) (*gemini.GenerateResponse, error) {
			if inFlight.Add(1) > 1 {
				t.Error("overlapping generation calls detected")
			}
			defer inFlight.Add(-1)
			if calls.Add(1) == 1 {
				releaseOne.Do(func() { close(firstEntry) })
				<-release
			}
			return textResponse("ok"), nil
		}).
		Times(2)

	svc := service.NewConversationService(mockGenerator, testPersonas(), nil, testModel)
	info, _ := svc.Create(context.Background(), "coach")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.AppendUserMessage(context.Background(), info.ID, "first")
	}()

	<-firstEntry

	// Submitted while the first call is in flight: accepted into history,
	// reply trigger queued.
	if err := svc.AppendUserMessage(context.Background(), info.ID, "second"); err != nil {
		t.Fatalf("AppendUserMessage() while busy error = %v", err)
	}

	close(release)
	<-done

	if got := calls.Load(); got != 2 {
		t.Fatalf("generator calls = %d, want 2", got)
	}

	_, messages, _ := svc.Transcript(context.Background(), info.ID)
	var roles []service.Role
	for _, msg := range messages {
		roles = append(roles, msg.Role)
	}
	want := []service.Role{service.RoleUser, service.RoleUser, service.RoleAssistant, service.RoleAssistant}
	if !reflect.DeepEqual(roles, want) {
		t.Errorf("transcript roles = %v, want %v", roles, want)
	}
	for i, msg := range messages {
		if msg.SequenceID != i+1 {
			t.Errorf("message %d SequenceID = %d, want %d", i, msg.SequenceID, i+1)
		}
	}
}

func TestConversationService_ReplyCompletesAfterCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGenerator := mocks.NewMockGenerator(ctrl)
	mockGenerator.EXPECT().
		GenerateContent(gomock.Any(), testModel, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ any) (*gemini.GenerateResponse, error) {
			if ctx.Err() != nil {
				t.Error("generation context should not carry the request's cancellation")
			}
			return textResponse("done"), nil
		})

	svc := service.NewConversationService(mockGenerator, testPersonas(), nil, testModel)
	info, _ := svc.Create(context.Background(), "coach")

	// The request context is already canceled when the turn is submitted.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.AppendUserMessage(ctx, info.ID, "hello"); err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}

	_, messages, _ := svc.Transcript(context.Background(), info.ID)
	last := messages[len(messages)-1]
	if last.Role != service.RoleAssistant || last.Content != "done" {
		t.Errorf("assistant reply = %+v, want completed reply", last)
	}
}

func TestConversationService_PersistenceFailuresAreNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGenerator := mocks.NewMockGenerator(ctrl)
	mockGenerator.EXPECT().
		GenerateContent(gomock.Any(), testModel, gomock.Any()).
		Return(textResponse("X"), nil)

	mockStore := mocks.NewMockTranscriptStore(ctrl)
	mockStore.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).Return(errors.New("store down")).AnyTimes()
	mockStore.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(errors.New("store down")).AnyTimes()

	svc := service.NewConversationService(mockGenerator, testPersonas(), mockStore, testModel)

	info, err := svc.Create(context.Background(), "mentor")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.AppendUserMessage(context.Background(), info.ID, "hello"); err != nil {
		t.Fatalf("AppendUserMessage() error = %v", err)
	}

	_, messages, err := svc.Transcript(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(messages) != 3 {
		t.Errorf("transcript length = %d, want 3", len(messages))
	}
}

func TestHistoryContents(t *testing.T) {
	history := []service.Message{
		{Role: service.RoleAssistant, Content: "welcome", SequenceID: 1},
		{Role: service.RoleUser, Content: "hi", SequenceID: 2},
		{Role: "system", Content: "dropped", SequenceID: 3},
		{Role: service.RoleUser, Content: "question", SequenceID: 4},
	}

	got := service.HistoryContents(history)
	want := []gemini.Content{
		{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: "welcome"}}},
		{Role: gemini.RoleUser, Parts: []gemini.Part{{Text: "hi"}}},
		{Role: gemini.RoleUser, Parts: []gemini.Part{{Text: "question"}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HistoryContents() = %+v, want %+v", got, want)
	}

	// The mapping is pure: same input, same output.
	again := service.HistoryContents(history)
	if !reflect.DeepEqual(got, again) {
		t.Error("HistoryContents() is not deterministic")
	}
}
