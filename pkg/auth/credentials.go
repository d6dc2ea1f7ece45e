package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	errs "twistory/pkg/errors"
)

// APIUser is the reserved name under which the application pair is stored
const APIUser = "<api>"

var (
	keyPattern    = regexp.MustCompile(`^(?P<user>[^#]+)_key\s*=\s*(?P<val>.+)`)
	secretPattern = regexp.MustCompile(`^(?P<user>[^#]+)_secret\s*=\s*(?P<val>.+)`)
)

// ErrCredentialsNotFound is returned when a store has no entry for a user
var ErrCredentialsNotFound = errors.New("credentials not found")

// Pair is an OAuth key and secret
type Pair struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

// Complete reports whether both halves are present
func (p Pair) Complete() bool {
	return p.Key != "" && p.Secret != ""
}

// Credentials are everything needed to sign requests on behalf of User
type Credentials struct {
	User   string
	App    Pair
	Access Pair
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// App returns the application pair
	App() (Pair, error)

	// Retrieve gets the access pair for a specific username
	Retrieve(username string) (Pair, error)

	// Store saves the access pair for a username
	Store(username string, pair Pair) error
}

// FileStore is the flat "<user>_key = value" credential file. It is read
// once and only ever appended to.
type FileStore struct {
	path string

	mu    sync.RWMutex
	app   Pair
	users map[string]Pair
}

// LoadFileStore reads the credential file at path
func LoadFileStore(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "Unable to open config file '%s'", path)
	}
	defer f.Close()

	app, users, err := Parse(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "Unable to read config file '%s'", path)
	}

	return &FileStore{path: path, app: app, users: users}, nil
}

// Parse reads credential lines from r. Comment, blank and unparseable lines
// are ignored; a later value for the same user and field wins.
func Parse(r io.Reader) (Pair, map[string]Pair, error) {
	var app Pair
	users := make(map[string]Pair)

	set := func(user string, apply func(*Pair)) {
		if user == APIUser {
			apply(&app)
			return
		}
		p := users[user]
		apply(&p)
		users[user] = p
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := keyPattern.FindStringSubmatch(line); m != nil {
			val := m[2]
			set(m[1], func(p *Pair) { p.Key = val })
		}
		if m := secretPattern.FindStringSubmatch(line); m != nil {
			val := m[2]
			set(m[1], func(p *Pair) { p.Secret = val })
		}
	}

	return app, users, scanner.Err()
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

// App returns the application pair
func (s *FileStore) App() (Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.app.Complete() {
		return Pair{}, ErrCredentialsNotFound
	}
	return s.app, nil
}

// Retrieve returns the access pair for username
func (s *FileStore) Retrieve(username string) (Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.users[username]
	if !ok || !p.Complete() {
		return Pair{}, ErrCredentialsNotFound
	}
	return p, nil
}

// Store appends the pair for username to the file
func (s *FileStore) Store(username string, pair Pair) error {
	if username == "" || username == APIUser || !pair.Complete() {
		return fmt.Errorf("refusing to store incomplete credentials for %q", username)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("unable to write to config file '%s': %w", s.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s_key = %s\n%s_secret = %s\n", username, pair.Key, username, pair.Secret); err != nil {
		return fmt.Errorf("unable to write to config file '%s': %w", s.path, err)
	}

	s.users[username] = pair
	return nil
}

// SanitizePair masks a pair for display
func SanitizePair(p Pair) Pair {
	return Pair{Key: maskString(p.Key), Secret: maskString(p.Secret)}
}

// maskString masks a string showing only first and last few characters
func maskString(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
