package storage

// Backend defines the contract for all persistence mechanisms.
type Backend interface {
	// LoadSession retrieves a session by its unique ID.
	// It MUST return (nil, nil) if the session does not exist.
	LoadSession(sessionID string) (*Session, error)

	// SaveSession atomically persists the entire session state.
	SaveSession(session *Session) error

	// Close releases backend resources, such as file locks.
	Close() error
}
