package fixtures

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Wire names of the BADSEC server
const (
	AuthTokenHeader = "Badsec-Authentication-Token"
	ChecksumHeader  = "X-Request-Checksum"
	AuthPath        = "/auth"
	UsersPath       = "/users"
)

// Default fixture values
const (
	DefaultToken = "12A63255-1388-AB5E-071C-FA35D27C4098"
	DefaultUsers = "9757263792576857988\n7789651288773276582\n16283886502782682407\n"
)

// BadsecServer is an in-process BADSEC server for end-to-end tests.
// Status sequences are served in order and the last entry repeats; an empty
// sequence means always 200.
type BadsecServer struct {
	*httptest.Server

	Token         string
	Users         string
	AuthStatuses  []int
	UsersStatuses []int

	authCalls  atomic.Int32
	usersCalls atomic.Int32

	mu           sync.Mutex
	lastChecksum string
}

// BadsecOption configures a BadsecServer.
type BadsecOption func(*BadsecServer)

// WithToken sets the token issued by /auth.
func WithToken(token string) BadsecOption {
	return func(s *BadsecServer) { s.Token = token }
}

// WithUsers sets the /users body.
func WithUsers(body string) BadsecOption {
	return func(s *BadsecServer) { s.Users = body }
}

// WithAuthStatuses scripts the /auth status codes.
func WithAuthStatuses(codes ...int) BadsecOption {
	return func(s *BadsecServer) { s.AuthStatuses = codes }
}

// WithUsersStatuses scripts the /users status codes.
func WithUsersStatuses(codes ...int) BadsecOption {
	return func(s *BadsecServer) { s.UsersStatuses = codes }
}

// NewBadsecServer starts a BADSEC server that is closed when t finishes.
func NewBadsecServer(t *testing.T, opts ...BadsecOption) *BadsecServer {
	t.Helper()
	s := &BadsecServer{
		Token: DefaultToken,
		Users: DefaultUsers,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+AuthPath, s.handleAuth)
	mux.HandleFunc("GET "+UsersPath, s.handleUsers)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// AuthCalls returns the number of /auth requests served.
func (s *BadsecServer) AuthCalls() int {
	return int(s.authCalls.Load())
}

// UsersCalls returns the number of /users requests served.
func (s *BadsecServer) UsersCalls() int {
	return int(s.usersCalls.Load())
}

// LastChecksum returns the checksum header of the most recent /users request.
func (s *BadsecServer) LastChecksum() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChecksum
}

// ExpectedChecksum returns the checksum /users accepts for the server token.
func (s *BadsecServer) ExpectedChecksum() string {
	sum := sha256.Sum256([]byte(s.Token + UsersPath))
	return hex.EncodeToString(sum[:])
}

func (s *BadsecServer) handleAuth(w http.ResponseWriter, _ *http.Request) {
	n := int(s.authCalls.Add(1)) - 1
	status := statusAt(s.AuthStatuses, n)
	if status == http.StatusOK {
		w.Header().Set(AuthTokenHeader, s.Token)
	}
	w.WriteHeader(status)
}

func (s *BadsecServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	n := int(s.usersCalls.Add(1)) - 1
	checksum := r.Header.Get(ChecksumHeader)

	s.mu.Lock()
	s.lastChecksum = checksum
	s.mu.Unlock()

	status := statusAt(s.UsersStatuses, n)
	if status == http.StatusOK && !strings.EqualFold(checksum, s.ExpectedChecksum()) {
		status = http.StatusUnauthorized
	}
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = io.WriteString(w, s.Users)
	}
}

func statusAt(codes []int, n int) int {
	if len(codes) == 0 {
		return http.StatusOK
	}
	if n >= len(codes) {
		n = len(codes) - 1
	}
	return codes[n]
}
