package bot

import "sync"

// Mode is the input-expectation state of one administrator.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAwaitTemplate
	ModeAwaitAddChannel
	ModeAwaitDeleteChannel
)

// String returns string representation of a session mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAwaitTemplate:
		return "awaiting_template"
	case ModeAwaitAddChannel:
		return "awaiting_add_channel"
	case ModeAwaitDeleteChannel:
		return "awaiting_delete_channel"
	default:
		return "unknown"
	}
}

// AdminSessionStore holds per-administrator conversational state for the
// lifetime of the process. Entering any awaiting mode replaces whatever
// mode was active, so at most one mode is set per admin at a time.
// Nothing is persisted; a restart returns every admin to idle.
type AdminSessionStore struct {
	mu    sync.Mutex
	modes map[int64]Mode
}

// NewAdminSessionStore creates an empty session store
func NewAdminSessionStore() *AdminSessionStore {
	return &AdminSessionStore{
		modes: make(map[int64]Mode),
	}
}

// Get returns the current mode for adminID, ModeIdle when unknown
func (s *AdminSessionStore) Get(adminID int64) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[adminID]
}

// Enter moves adminID into mode
func (s *AdminSessionStore) Enter(adminID int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == ModeIdle {
		delete(s.modes, adminID)
		return
	}
	s.modes[adminID] = mode
}

// Reset returns adminID to idle
func (s *AdminSessionStore) Reset(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modes, adminID)
}
