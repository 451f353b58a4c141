package session

import (
	"context"
	"crypto/md5" //nolint:gosec // The remote API requires MD5 password digests.
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/constants"
	"github.com/okonenko/ncm-grabber/internal/logger"
	http_transport "github.com/okonenko/ncm-grabber/internal/transport/http"
	"github.com/okonenko/ncm-grabber/internal/utils"
)

// Store manages the authenticated session and its persistence.
// Mutations (login, logout, persist) are serialized behind a write lock;
// reads of the authenticated transport are concurrent.
type Store struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the parsed API base URL the session cookies are scoped to.
	baseURL *url.URL
	// httpClient is the cookie-backed HTTP client shared by all API calls.
	httpClient *http.Client
	// mu serializes session mutations.
	mu sync.RWMutex
}

const (
	// ncmAPILoginCellphoneURI is the URI path for the credential login endpoint.
	ncmAPILoginCellphoneURI = "api/login/cellphone"
	// ncmAPIRegisterAnonymousURI is the URI path for the anonymous login endpoint.
	ncmAPIRegisterAnonymousURI = "api/register/anonimous"
	// ncmAPIAccountURI is the URI path for the account profile endpoint.
	ncmAPIAccountURI = "api/nuser/account/get"

	// apiCodeOK is the envelope code reported on success.
	apiCodeOK = 200

	// anonymousDeviceIDPrefix identifies this client to the anonymous registration endpoint.
	// A random suffix is appended per registration so guest sessions stay distinct.
	anonymousDeviceIDPrefix = "ncm-grabber"
	// deviceIDXorKey is the fixed key the API expects device IDs to be masked with.
	deviceIDXorKey = "3go8&$8*3*3h0k(2)2"
)

// Profile holds account details of the authenticated user.
type Profile struct {
	// Nickname is the account display name.
	Nickname string
	// VIPType is the account's subscription tier (0 = none).
	VIPType int64
}

// persistedSession is the on-disk shape of a saved session.
type persistedSession struct {
	// Cookies are the session cookies scoped to the API base URL.
	Cookies []*persistedCookie `json:"cookies"`
}

// persistedCookie is the on-disk shape of a single session cookie.
type persistedCookie struct {
	// Name is the cookie name.
	Name string `json:"name"`
	// Value is the cookie value.
	Value string `json:"value"`
}

// NewStore creates a session store with a cookie-backed HTTP client and
// attempts to restore a previously persisted session.
func NewStore(cfg *config.Config) (*Store, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	baseURL, err := url.Parse(cfg.NCMBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}

	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(
				http_transport.NewRetryTransport(
					http.DefaultTransport,
					int(cfg.RetryAttemptsCount),
					cfg.ParsedMinRetryPause,
					cfg.ParsedMaxRetryPause),
				0),
			utils.NewSimpleUserAgentProvider(http_transport.DesktopBrowserUserAgent)),
		Jar:     jar,
		Timeout: http_transport.APIRequestTimeout,
	}

	store := &Store{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
	}

	if exists, _ := utils.IsFileExist(cfg.SessionFile); exists {
		if err = store.Restore(); err != nil {
			logger.Warnf(context.Background(), "Failed to restore session: %v", err)
		}
	}

	return store, nil
}

// HTTPClient returns the cookie-backed HTTP client shared by all API calls.
func (s *Store) HTTPClient() *http.Client {
	return s.httpClient
}

// HasSession reports whether a persisted session exists.
func (s *Store) HasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, _ := utils.IsFileExist(s.cfg.SessionFile)

	return exists
}

// LoginWithCredentials authenticates with a phone number and password.
// The session is persisted immediately on success.
func (s *Store) LoginWithCredentials(ctx context.Context, identity, secret string) error {
	const op = "credential login"

	s.mu.Lock()
	defer s.mu.Unlock()

	digest := md5.Sum([]byte(secret)) //nolint:gosec // The remote API requires MD5 password digests.

	form := url.Values{}
	form.Set("phone", identity)
	form.Set("password", hex.EncodeToString(digest[:]))
	form.Set("rememberLogin", "true")

	envelope, err := s.postForm(ctx, ncmAPILoginCellphoneURI, form)
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}

	if envelope.Code != apiCodeOK {
		return &AuthError{Op: op, Credential: true, Err: fmt.Errorf("%w: code %d", ErrLoginRejected, envelope.Code)}
	}

	return s.persistLocked()
}

// LoginAnonymous registers a guest session.
// The session is persisted immediately on success.
func (s *Store) LoginAnonymous(ctx context.Context) error {
	const op = "anonymous login"

	s.mu.Lock()
	defer s.mu.Unlock()

	deviceID := anonymousDeviceIDPrefix + "-" + uuid.NewString()

	form := url.Values{}
	form.Set("username", anonymousUsername(deviceID))

	envelope, err := s.postForm(ctx, ncmAPIRegisterAnonymousURI, form)
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}

	if envelope.Code != apiCodeOK {
		return &AuthError{Op: op, Credential: true, Err: fmt.Errorf("%w: code %d", ErrLoginRejected, envelope.Code)}
	}

	return s.persistLocked()
}

// Logout removes the persisted session and resets the cookie jar.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, _ := utils.IsFileExist(s.cfg.SessionFile); exists {
		if err := os.Remove(s.cfg.SessionFile); err != nil {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to reset cookie jar: %w", err)
	}

	s.httpClient.Jar = jar

	return nil
}

// Persist writes the current session cookies to the configured session file.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked()
}

// Restore loads session cookies from the configured session file.
func (s *Store) Restore() error {
	blob, err := os.ReadFile(s.cfg.SessionFile)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var saved persistedSession
	if err = json.Unmarshal(blob, &saved); err != nil {
		return fmt.Errorf("failed to decode session file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(saved.Cookies))
	for _, cookie := range saved.Cookies {
		cookies = append(cookies, &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	s.httpClient.Jar.SetCookies(s.baseURL, cookies)

	return nil
}

// Profile fetches the nickname and subscription tier of the authenticated user.
func (s *Store) Profile(ctx context.Context) (*Profile, error) {
	const op = "account profile"

	response, err := s.postFormRaw(ctx, ncmAPIAccountURI, url.Values{})
	if err != nil {
		return nil, &AuthError{Op: op, Err: err}
	}

	var payload struct {
		Code    int64 `json:"code"`
		Profile *struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
		Account *struct {
			VIPType int64 `json:"vipType"`
		} `json:"account"`
	}

	if err = json.Unmarshal(response, &payload); err != nil {
		return nil, &AuthError{Op: op, Err: err}
	}

	if payload.Code != apiCodeOK || payload.Profile == nil {
		return nil, &AuthError{Op: op, Credential: true, Err: ErrNoSession}
	}

	profile := &Profile{Nickname: payload.Profile.Nickname}
	if payload.Account != nil {
		profile.VIPType = payload.Account.VIPType
	}

	return profile, nil
}

// apiEnvelope is the minimal response shape shared by auth endpoints.
type apiEnvelope struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// Unikey is the QR ticket key, present on QR endpoints only.
	Unikey string `json:"unikey"`
}

// persistLocked writes the session cookies to disk. The caller must hold the write lock.
func (s *Store) persistLocked() error {
	cookies := s.httpClient.Jar.Cookies(s.baseURL)

	saved := persistedSession{Cookies: make([]*persistedCookie, 0, len(cookies))}
	for _, cookie := range cookies {
		saved.Cookies = append(saved.Cookies, &persistedCookie{Name: cookie.Name, Value: cookie.Value})
	}

	blob, err := json.Marshal(&saved)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err = os.WriteFile(s.cfg.SessionFile, blob, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// postForm sends a form-encoded POST and decodes the shared envelope.
func (s *Store) postForm(ctx context.Context, uri string, form url.Values) (*apiEnvelope, error) {
	body, err := s.postFormRaw(ctx, uri, form)
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err = json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &envelope, nil
}

// postFormRaw sends a form-encoded POST and returns the raw response body.
func (s *Store) postFormRaw(ctx context.Context, uri string, form url.Values) ([]byte, error) {
	route, err := url.JoinPath(s.baseURL.String(), uri)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, route, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return io.ReadAll(response.Body)
}

// anonymousUsername derives the registration username the anonymous endpoint
// expects: the device ID joined with its masked MD5 digest, base64-encoded.
func anonymousUsername(deviceID string) string {
	masked := make([]byte, len(deviceID))
	for i := range len(deviceID) {
		masked[i] = deviceID[i] ^ deviceIDXorKey[i%len(deviceIDXorKey)]
	}

	digest := md5.Sum(masked) //nolint:gosec // The remote API requires this digest scheme.
	encodedDigest := base64.StdEncoding.EncodeToString(digest[:])

	return base64.StdEncoding.EncodeToString([]byte(deviceID + " " + encodedDigest))
}
