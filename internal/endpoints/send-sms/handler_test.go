package sendsms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpclient "notification-relay/internal/common/http"
	"notification-relay/internal/common/logger"
	"notification-relay/internal/common/providers"
	"notification-relay/internal/common/providers/twilio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Name() string { return "mock" }

func (m *MockSender) SendSMS(ctx context.Context, msg providers.SMSMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func newTestHandler(t *testing.T, sender providers.SMSSender) *Handler {
	h, err := NewHandler(HandlerOptions{
		Config: DefaultConfig(),
		Sender: sender,
		Logger: logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestHandler_NewHandlerInvalidConfig(t *testing.T) {
	_, err := NewHandler(HandlerOptions{Config: &Config{}})
	assert.Error(t, err)
}

func TestHandler_Methods(t *testing.T) {
	h := newTestHandler(t, new(MockSender))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, Path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decodeError(t, rec))
}

func TestHandler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", msgMissingFields},
		{"missing message", `{"to":"809-555-1234"}`, msgMissingFields},
		{"empty to", `{"to":"","message":"hola"}`, msgMissingFields},
		{"null message", `{"to":"809-555-1234","message":null}`, msgMissingFields},
		{"malformed", `{"to":`, msgInvalidBody},
		{"numeric to", `{"to":8095551234,"message":"hola"}`, msgInvalidBody},
		{"numeric message", `{"to":"809-555-1234","message":5}`, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(MockSender)
			h := newTestHandler(t, sender)

			rec := post(h, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			sender.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_NormalizesNumber(t *testing.T) {
	for _, to := range []string{"809-555-1234", "1-809-555-1234", "+1 809 555 1234"} {
		t.Run(to, func(t *testing.T) {
			sender := new(MockSender)
			sender.On("SendSMS", mock.Anything, providers.SMSMessage{To: "+18095551234", Body: "hola"}).
				Return("SM1", nil)
			h := newTestHandler(t, sender)

			body, _ := json.Marshal(map[string]string{"to": to, "message": "hola"})
			rec := post(h, string(body))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"success":true,"sid":"SM1"}`, rec.Body.String())
			sender.AssertExpectations(t)
		})
	}
}

func TestHandler_RelaysFreeFormNumbers(t *testing.T) {
	tests := []struct {
		to   string
		want string
	}{
		{"abc", "+1"},
		{"ext.", "+1"},
		{"+", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			sender := new(MockSender)
			sender.On("SendSMS", mock.Anything, providers.SMSMessage{To: tt.want, Body: "hola"}).
				Return("", &providers.Error{Provider: "mock", StatusCode: http.StatusBadRequest, Message: "invalid To"})
			h := newTestHandler(t, sender)

			body, _ := json.Marshal(map[string]string{"to": tt.to, "message": "hola"})
			rec := post(h, string(body))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, msgSendFailed, decodeError(t, rec))
			sender.AssertExpectations(t)
		})
	}
}

func TestHandler_TwilioEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+18095551234", r.PostForm.Get("To"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SMabc"}`))
	}))
	defer srv.Close()

	sender := twilio.New(httpclient.NewClient(5*time.Second), srv.URL, "AC1", "tok", "+15550000000")
	h := newTestHandler(t, sender)

	rec := post(h, `{"to":"809-555-1234","message":"Su técnico llega mañana"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"sid":"SMabc"}`, rec.Body.String())
}

func TestHandler_ProviderErrorIsNotDisclosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":20003,"message":"Authenticate"}`))
	}))
	defer srv.Close()

	sender := twilio.New(httpclient.NewClient(5*time.Second), srv.URL, "AC1", "bad", "+15550000000")
	h := newTestHandler(t, sender)

	rec := post(h, `{"to":"809-555-1234","message":"hola"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgSendFailed, decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "Authenticate")
}

func TestHandler_NotConfigured(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := post(h, `{"to":"809-555-1234","message":"hola"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgNotConfigured, decodeError(t, rec))
}
