package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonenko/ncm-grabber/internal/config"
)

// testConfig returns a config pointing the store at a test server and temp session file.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()

	return &config.Config{
		NCMBaseURL:          serverURL,
		SessionFile:         filepath.Join(t.TempDir(), "session.ncm"),
		RetryAttemptsCount:  1,
		ParsedMinRetryPause: time.Millisecond,
		ParsedMaxRetryPause: time.Millisecond,
	}
}

// TestLoginPersistRestore tests the full session round trip:
// login sets a cookie, persist writes it, a fresh store restores it,
// and subsequent requests carry the cookie.
func TestLoginPersistRestore(t *testing.T) {
	t.Parallel()

	var observedCookie string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/cellphone":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "13800000000", r.PostFormValue("phone"))
			// The password travels as an MD5 digest, never in clear text.
			assert.NotEqual(t, "secret", r.PostFormValue("password"))
			assert.Len(t, r.PostFormValue("password"), 32)

			http.SetCookie(w, &http.Cookie{Name: "MUSIC_U", Value: "token-value", Path: "/"})
			fmt.Fprint(w, `{"code": 200}`)
		case "/api/nuser/account/get":
			if cookie, err := r.Cookie("MUSIC_U"); err == nil {
				observedCookie = cookie.Value
			}

			fmt.Fprint(w, `{"code": 200, "profile": {"nickname": "tester"}, "account": {"vipType": 11}}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)

	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.False(t, store.HasSession())

	require.NoError(t, store.LoginWithCredentials(context.Background(), "13800000000", "secret"))
	assert.True(t, store.HasSession())

	// A fresh store restores the persisted session and rides the same cookie.
	restored, err := NewStore(cfg)
	require.NoError(t, err)
	assert.True(t, restored.HasSession())

	profile, err := restored.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester", profile.Nickname)
	assert.Equal(t, int64(11), profile.VIPType)
	assert.Equal(t, "token-value", observedCookie)
}

// TestLoginWithCredentials_Rejected tests that a rejection surfaces as a credential AuthError.
func TestLoginWithCredentials_Rejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 502}`)
	}))
	defer server.Close()

	store, err := NewStore(testConfig(t, server.URL))
	require.NoError(t, err)

	err = store.LoginWithCredentials(context.Background(), "13800000000", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.Credential)
	assert.False(t, store.HasSession())
}

// TestLoginAnonymous tests guest registration and immediate persistence.
func TestLoginAnonymous(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/register/anonimous", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostFormValue("username"))

		http.SetCookie(w, &http.Cookie{Name: "MUSIC_A", Value: "guest-token", Path: "/"})
		fmt.Fprint(w, `{"code": 200}`)
	}))
	defer server.Close()

	store, err := NewStore(testConfig(t, server.URL))
	require.NoError(t, err)

	require.NoError(t, store.LoginAnonymous(context.Background()))
	assert.True(t, store.HasSession())
}

// TestLogout tests that logout removes the session file and resets cookies.
func TestLogout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "MUSIC_A", Value: "guest-token", Path: "/"})
		fmt.Fprint(w, `{"code": 200}`)
	}))
	defer server.Close()

	store, err := NewStore(testConfig(t, server.URL))
	require.NoError(t, err)

	require.NoError(t, store.LoginAnonymous(context.Background()))
	require.True(t, store.HasSession())

	require.NoError(t, store.Logout())
	assert.False(t, store.HasSession())

	// Logging out twice is harmless.
	require.NoError(t, store.Logout())
}

// TestQRLoginFlow tests the QR ticket state machine through confirmation.
func TestQRLoginFlow(t *testing.T) {
	t.Parallel()

	pollResponses := []string{
		`{"code": 801}`,
		`{"code": 802}`,
		`{"code": 803}`,
	}

	var pollCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/qrcode/unikey":
			fmt.Fprint(w, `{"code": 200, "unikey": "test-unikey"}`)
		case "/api/login/qrcode/client/login":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "test-unikey", r.PostFormValue("key"))

			fmt.Fprint(w, pollResponses[pollCalls])
			pollCalls++
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store, err := NewStore(testConfig(t, server.URL))
	require.NoError(t, err)

	ticket, err := store.BeginQRLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-unikey", ticket.Unikey)
	assert.Contains(t, ticket.URL, "codekey=test-unikey")

	expected := []QRStatus{QRStatusPending, QRStatusScanned, QRStatusConfirmed}
	for _, want := range expected {
		status, pollErr := store.PollQRLogin(context.Background(), ticket)
		require.NoError(t, pollErr)
		assert.Equal(t, want, status)
	}

	// Confirmation persists the session.
	assert.True(t, store.HasSession())
}

// TestQRLogin_Expired tests the expired ticket path.
func TestQRLogin_Expired(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code": 800}`)
	}))
	defer server.Close()

	store, err := NewStore(testConfig(t, server.URL))
	require.NoError(t, err)

	status, err := store.PollQRLogin(context.Background(), &QRTicket{Unikey: "stale"})
	require.NoError(t, err)
	assert.Equal(t, QRStatusExpired, status)
}

// TestNewStoreFromLoadedConfig tests that a store built from a freshly loaded
// config targets an absolute API URL. Auth commands construct the store this
// way, without the flag binding the download command goes through.
//
//nolint:paralleltest // LoadConfig mutates global viper state.
func TestNewStoreFromLoadedConfig(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.SessionFile = filepath.Join(t.TempDir(), "session.ncm")

	store, err := NewStore(cfg)
	require.NoError(t, err)

	assert.Equal(t, config.NCMBaseURL, cfg.NCMBaseURL)
	assert.True(t, store.baseURL.IsAbs())
	assert.NotEmpty(t, store.baseURL.Host)
}

// TestAnonymousUsername tests that the derived username is deterministic.
func TestAnonymousUsername(t *testing.T) {
	t.Parallel()

	first := anonymousUsername("device-a")
	second := anonymousUsername("device-a")
	other := anonymousUsername("device-b")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotEmpty(t, first)
}
