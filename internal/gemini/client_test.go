package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func staticKey(key string) KeyFunc {
	return func() string { return key }
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081", staticKey("test-key"), 10*time.Second)
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.APIKey() != "test-key" {
		t.Errorf("NewClient() APIKey() = %v, want test-key", client.APIKey())
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func TestClient_GenerateContent(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(t *testing.T, w http.ResponseWriter, r *http.Request)
		wantText   string
		wantErr    bool
		checkErr   func(error) bool
	}{
		{
			name: "successful generation",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1beta/models/test-model:generateContent" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("key") != "test-key" {
					t.Error("missing key query parameter")
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Error("missing Content-Type header")
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi there!"}]}}]}`))
			},
			wantText: "Hi there!",
		},
		{
			name: "no candidates returned",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			wantText: "",
		},
		{
			name: "provider error with message",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			},
			wantErr: true,
			checkErr: func(err error) bool {
				var upstream *UpstreamError
				return errors.As(err, &upstream) &&
					upstream.StatusCode == http.StatusServiceUnavailable &&
					upstream.Message == "overloaded"
			},
		},
		{
			name: "provider error without message",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`"not the expected shape"`))
			},
			wantErr: true,
			checkErr: func(err error) bool {
				var upstream *UpstreamError
				return errors.As(err, &upstream) &&
					upstream.StatusCode == http.StatusBadRequest &&
					upstream.Message == upstreamErrorFallback
			},
		},
		{
			name: "malformed success body",
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResp(t, w, r)
			}))
			defer server.Close()

			client := NewClient(server.URL, staticKey("test-key"), 10*time.Second)
			resp, err := client.GenerateContent(context.Background(), "test-model", &GenerateRequest{
				Contents: []Content{{Role: RoleUser, Parts: []Part{{Text: "Hello"}}}},
			})

			if tt.wantErr {
				if err == nil {
					t.Fatal("GenerateContent() expected error, got nil")
				}
				if tt.checkErr != nil && !tt.checkErr(err) {
					t.Errorf("GenerateContent() error = %v, failed type check", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateContent() error = %v", err)
			}
			if got := resp.FirstCandidateText(); got != tt.wantText {
				t.Errorf("FirstCandidateText() = %q, want %q", got, tt.wantText)
			}
			if len(resp.Raw) == 0 {
				t.Error("GenerateContent() should retain the raw response body")
			}
		})
	}
}

func TestClient_GenerateContent_MissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, staticKey(""), 10*time.Second)
	_, err := client.GenerateContent(context.Background(), "test-model", &GenerateRequest{})

	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("GenerateContent() error = %v, want ErrNoAPIKey", err)
	}
	if called {
		t.Error("GenerateContent() should not call the provider without a key")
	}
}

func TestClient_GenerateContent_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed immediately so the call fails

	client := NewClient(server.URL, staticKey("test-key"), time.Second)
	_, err := client.GenerateContent(context.Background(), "test-model", &GenerateRequest{})

	if err == nil {
		t.Fatal("GenerateContent() expected network error, got nil")
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Errorf("network failure should not be an UpstreamError, got %v", err)
	}
}

func TestClient_GenerateContent_ErrorOmitsKey(t *testing.T) {
	const key = "SUPER-SECRET-KEY"

	tests := []struct {
		name    string
		baseURL string
	}{
		{
			// Connection refused: the url.Error echoes the request URL.
			name:    "unreachable host",
			baseURL: "http://127.0.0.1:1",
		},
		{
			// Unparsable endpoint: the error echoes the raw URL.
			name:    "invalid base url",
			baseURL: "http://bad url with spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, staticKey(key), time.Second)
			_, err := client.GenerateContent(context.Background(), "test-model", &GenerateRequest{})

			if err == nil {
				t.Fatal("GenerateContent() expected error, got nil")
			}
			if strings.Contains(err.Error(), key) {
				t.Errorf("GenerateContent() error text contains the api key: %v", err)
			}
		})
	}
}

func TestGenerateResponse_FirstCandidateText(t *testing.T) {
	tests := []struct {
		name string
		resp *GenerateResponse
		want string
	}{
		{
			name: "nil response",
			resp: nil,
			want: "",
		},
		{
			name: "no candidates",
			resp: &GenerateResponse{},
			want: "",
		},
		{
			name: "candidate without parts",
			resp: &GenerateResponse{Candidates: []Candidate{{}}},
			want: "",
		},
		{
			name: "first part of first candidate",
			resp: &GenerateResponse{Candidates: []Candidate{
				{Content: Content{Parts: []Part{{Text: "first"}, {Text: "second"}}}},
				{Content: Content{Parts: []Part{{Text: "other"}}}},
			}},
			want: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.FirstCandidateText(); got != tt.want {
				t.Errorf("FirstCandidateText() = %q, want %q", got, tt.want)
			}
		})
	}
}
