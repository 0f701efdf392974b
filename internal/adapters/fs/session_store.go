package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-vault/internal/domain/config"
	"github.com/trebuchet-org/treb-vault/internal/usecase"
)

// sessionFile is the on-disk wallet session
type sessionFile struct {
	Identity    string    `json:"identity"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// SessionStoreAdapter implements WalletSession with the identity persisted on disk
type SessionStoreAdapter struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	loaded bool
	state  *sessionFile
}

// NewSessionStoreAdapter creates a new SessionStoreAdapter
func NewSessionStoreAdapter(cfg *config.RuntimeConfig) *SessionStoreAdapter {
	return &SessionStoreAdapter{
		path: filepath.Join(cfg.DataDir, "priv", "session.json"),
		now:  time.Now,
	}
}

// CurrentIdentity returns the connected identity in checksum form
func (s *SessionStoreAdapter) CurrentIdentity(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	if state == nil || state.Identity == "" {
		return "", false
	}
	return state.Identity, true
}

// IsConnected reports whether a wallet is connected
func (s *SessionStoreAdapter) IsConnected(ctx context.Context) bool {
	_, ok := s.CurrentIdentity(ctx)
	return ok
}

// Connect validates identity as an address and persists it
func (s *SessionStoreAdapter) Connect(_ context.Context, identity string) error {
	if !common.IsHexAddress(identity) {
		return fmt.Errorf("invalid address: %s", identity)
	}

	state := &sessionFile{
		Identity:    common.HexToAddress(identity).Hex(),
		ConnectedAt: s.now().UTC(),
	}

	if err := writeJSON(s.path, state, 0600); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = state
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Disconnect removes the session file
func (s *SessionStoreAdapter) Disconnect(_ context.Context) error {
	if err := removeFile(s.path); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = nil
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// load reads the session file once. A missing or unreadable file means no session.
func (s *SessionStoreAdapter) load() *sessionFile {
	if s.loaded {
		return s.state
	}
	s.loaded = true

	var state sessionFile
	found, err := readJSON(s.path, &state)
	if err != nil || !found || !common.IsHexAddress(state.Identity) {
		return nil
	}
	s.state = &state
	return s.state
}

// Ensure SessionStoreAdapter implements WalletSession
var _ usecase.WalletSession = (*SessionStoreAdapter)(nil)
