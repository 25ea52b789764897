package match

import "sync"

func NewRegistry() *Registry {
	return &Registry{sessions: map[int64]*Session{}}
}

// Registry keeps at most one live session per chat.
type Registry struct {
	mtx      sync.RWMutex
	sessions map[int64]*Session
}

// Create registers a new session for config.ChatID. The session leaves the registry on teardown.
func (r *Registry) Create(config Config) (*Session, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.sessions[config.ChatID]; ok {
		return nil, ErrSessionExists
	}

	doneFn := config.DoneFn
	config.DoneFn = func(session *Session) error {
		r.Remove(session.ChatID, session)
		if doneFn != nil {
			return doneFn(session)
		}

		return nil
	}

	session := NewSession(config)
	r.sessions[config.ChatID] = session

	return session, nil
}

func (r *Registry) Get(chatID int64) (*Session, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	session, ok := r.sessions[chatID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// Remove unmaps the chat only while it still points at session.
func (r *Registry) Remove(chatID int64, session *Session) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if current, ok := r.sessions[chatID]; ok && current == session {
		delete(r.sessions, chatID)
	}
}

func (r *Registry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.sessions)
}

func (r *Registry) StopAll() {
	r.mtx.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mtx.RUnlock()

	for _, session := range sessions {
		session.Stop()
	}
}
