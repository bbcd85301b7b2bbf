package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kotubrief/book-api/db"
	"kotubrief/book-api/middleware"
	"kotubrief/book-api/security"
	"kotubrief/book-api/storage"
	"kotubrief/book-api/tts"
)

// recordingMailer captures outgoing mail so tests can read OTP codes
// out of the bodies instead of talking to an SMTP server.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// last returns the most recent mail.
func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "expected at least one mail to have been sent")
	return m.sent[len(m.sent)-1]
}

var otpRe = regexp.MustCompile(`\d{6}`)

// lastCode returns the OTP code in the most recent mail.
func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "expected at least one mail to have been sent")

	code := otpRe.FindString(m.sent[len(m.sent)-1].Body)
	require.Len(t, code, 6)
	return code
}

// stubAI returns a canned completion without any network traffic.
type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) Complete(_ context.Context, _, _ string, _ int) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	return s.reply, nil
}

// stubTTS reports a fixed synthesis result without fetching audio.
type stubTTS struct {
	result *tts.Result
	err    error
}

func (s *stubTTS) Synthesize(text, _, _, _ string) (*tts.Result, error) {
	if s.err != nil {
		return nil, s.err
	}

	if s.result != nil {
		return s.result, nil
	}

	return &tts.Result{Filename: "stub.mp3", Seconds: tts.ApproxSeconds(text)}, nil
}

func newTestAPI(t *testing.T) (*API, *recordingMailer) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.expires_min", 60)
	viper.Set("jwt.dev_bypass", false)
	viper.Set("rate.rps", 1000)
	viper.Set("rate.burst", 1000)
	viper.Set("host.domain", "localhost")
	viper.Set("host.ssl.enabled", false)
	viper.Set("tts.audio_dir", t.TempDir())
	viper.Set("storage.upload_dir", t.TempDir())

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"

	database, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	mailer := &recordingMailer{}

	a := &API{
		DB:     database,
		Router: gin.New(),
		Argon:  security.NewArgon(),
		Mail:   mailer,
		AI:     &stubAI{reply: "stub completion"},
		TTS:    &stubTTS{},
		Store:  storage.NewLocal(),
	}

	a.Router.Use(middleware.NewRequestIDMiddleware())
	a.registerRoutes()

	return a, mailer
}

func doJSON(t *testing.T, a *API, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// signupAndVerify walks a fresh account through the full verification
// flow using the public endpoints.
func signupAndVerify(t *testing.T, a *API, m *recordingMailer, fullName, email, password string) {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/signup", gin.H{
		"full_name": fullName,
		"email":     email,
		"password":  password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, a, http.MethodPost, "/verify-otp", gin.H{
		"email": email,
		"otp":   m.lastCode(t),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// signIn logs an account in and returns its session token.
func signIn(t *testing.T, a *API, email, password string) string {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/signin", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}
