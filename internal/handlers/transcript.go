package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"mentordesk/internal/contextutil"
	"mentordesk/internal/persona"
	"mentordesk/internal/service"
)

// TranscriptHandler serves conversation transcripts as rendered HTML pages.
// Assistant replies are markdown and rendered as such; user turns are
// escaped plain text.
type TranscriptHandler struct {
	conversations service.ConversationService
	personas      persona.Store
	parser        goldmark.Markdown
	template      *template.Template
}

// transcriptTurn holds template data for one rendered message.
type transcriptTurn struct {
	Role    string
	Content template.HTML
}

// transcriptPageData holds template data for the transcript page.
type transcriptPageData struct {
	ConversationID string
	PersonaName    string
	Turns          []transcriptTurn
}

// NewTranscriptHandler creates a new handler for transcript export.
func NewTranscriptHandler(conversations service.ConversationService, personas persona.Store) *TranscriptHandler {
	tmpl := template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Conversation with {{.PersonaName}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: system-ui, sans-serif;
      background: #111;
      color: #eee;
      max-width: 48rem;
      margin: 0 auto;
      padding: 2rem 1rem;
    }
    .turn {
      border-radius: 0.5rem;
      padding: 0.75rem 1rem;
      margin-bottom: 1rem;
    }
    .turn.user {
      background: #1d3557;
      margin-left: 4rem;
    }
    .turn.assistant {
      background: #222;
      margin-right: 4rem;
    }
    .role {
      font-size: 0.75rem;
      text-transform: uppercase;
      letter-spacing: 0.05em;
      color: #999;
      margin-bottom: 0.25rem;
    }
  </style>
</head>
<body>
  <h1>Conversation with {{.PersonaName}}</h1>
  {{range .Turns}}
  <div class="turn {{.Role}}">
    <div class="role">{{.Role}}</div>
    <div class="content">{{.Content}}</div>
  </div>
  {{end}}
</body>
</html>`))

	return &TranscriptHandler{
		conversations: conversations,
		personas:      personas,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Strikethrough,
				extension.Linkify,
			),
		),
		template: tmpl,
	}
}

// Export handles GET /conversations/{conversationID}.
func (h *TranscriptHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	conversationID := chi.URLParam(r, "conversationID")

	info, messages, err := h.conversations.Transcript(ctx, conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	personaName := info.PersonaID
	if p, ok := h.personas.FindByID(info.PersonaID); ok {
		personaName = p.Name
	}

	data := transcriptPageData{
		ConversationID: info.ID,
		PersonaName:    personaName,
	}
	for _, msg := range messages {
		data.Turns = append(data.Turns, transcriptTurn{
			Role:    string(msg.Role),
			Content: h.renderContent(msg),
		})
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		logger.ErrorContext(ctx, "failed to render transcript", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render transcript")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// renderContent converts one message to safe HTML. Goldmark escapes raw
// HTML in the source by default, so rendered markdown stays inert.
func (h *TranscriptHandler) renderContent(msg service.Message) template.HTML {
	if msg.Role == service.RoleAssistant {
		var buf bytes.Buffer
		if err := h.parser.Convert([]byte(msg.Content), &buf); err == nil {
			return template.HTML(buf.String())
		}
	}
	return template.HTML("<p>" + template.HTMLEscapeString(msg.Content) + "</p>")
}
