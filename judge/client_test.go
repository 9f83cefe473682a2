package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().Judge
	cfg.BaseURL = srv.URL
	c, err := NewClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestJudgeSendsSubmission(t *testing.T) {
	var got SubmissionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/judge", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":"Accept"}`))
	})

	req := SubmissionRequest{Nickname: "a", Email: "a@x.com", Code: "print(1)"}
	result, err := c.Judge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.Equal(t, Accept, result.Verdict().Kind)
	assert.Empty(t, result.Message)
}

func TestJudgeKeepsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"Runtime Error","message":"segfault\nat line 4"}`))
	})

	result, err := c.Judge(context.Background(), SubmissionRequest{})
	require.NoError(t, err)
	assert.Equal(t, RuntimeError, result.Verdict().Kind)
	assert.Equal(t, "segfault\nat line 4", result.Message)
}

func TestJudgeServerError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 500, `{"detail":"judge queue full"}`, "server error: 500 - judge queue full"},
		{"no detail", 503, `{}`, "server error: 503 - unknown error"},
		{"empty detail", 400, `{"detail":""}`, "server error: 400 - unknown error"},
		{"not json", 502, `<html>bad gateway</html>`, "server error: 502 - unknown error"},
		{"detail list", 422, `{"detail":[{"loc":["body","email"], "msg":"bad"}]}`,
			`server error: 422 - [{"loc":["body","email"],"msg":"bad"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Judge(context.Background(), SubmissionRequest{})
			var transportErr *TransportError
			require.True(t, errors.As(err, &transportErr))
			assert.Equal(t, tt.status, transportErr.StatusCode)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestJudgeMalformedBody(t *testing.T) {
	for _, body := range []string{`not json`, `{"message":"no status"}`, `{"status":1}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		_, err := c.Judge(context.Background(), SubmissionRequest{})
		var malformed *MalformedResponseError
		assert.True(t, errors.As(err, &malformed), "body %q", body)
	}
}

func TestJudgeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.Default().Judge
	cfg.BaseURL = srv.URL
	srv.Close()

	c, err := NewClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.Judge(context.Background(), SubmissionRequest{})
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)
	assert.NotEmpty(t, err.Error())
	assert.NotContains(t, err.Error(), "server error")
}

func TestRegisterAndPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submit":
			var req RegistrationRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(Visitor{ID: 7, Nickname: req.Nickname, Email: req.Email})
		case "/":
			w.Write([]byte(`{"message":"Welcome to the Innovation Base API"}`))
		default:
			http.NotFound(w, r)
		}
	})

	visitor, err := c.Register(context.Background(), RegistrationRequest{Nickname: "a", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, &Visitor{ID: 7, Nickname: "a", Email: "a@x.com"}, visitor)

	msg, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the Innovation Base API", msg)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.JudgeConfig{}, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestJudgeURL(t *testing.T) {
	c, err := NewClient(config.JudgeConfig{BaseURL: "http://127.0.0.1:8000/", JudgePath: "api/judge"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/api/judge", c.JudgeURL())
}

func TestJudgeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"status":"Accept"}`))
	}))
	defer srv.Close()

	cfg := config.Default().Judge
	cfg.BaseURL = srv.URL
	cfg.Timeout = 100
	c, err := NewClient(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.Judge(context.Background(), SubmissionRequest{})
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)
	assert.NotContains(t, err.Error(), "server error")
}

func TestJudgeTruncatedErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":`))
	})

	_, err := c.Judge(context.Background(), SubmissionRequest{})
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Equal(t, "server error: 500 - unknown error", err.Error())
}
