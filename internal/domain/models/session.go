package models

// SessionPhase tracks the lifecycle of one portal conversation.
type SessionPhase string

const (
	// PhaseNew is the state before any network activity
	PhaseNew SessionPhase = "new"

	// PhaseHandshaking means the handshake request is in flight
	PhaseHandshaking SessionPhase = "handshaking"

	// PhaseHandshaken means a token was obtained and authenticate may run
	PhaseHandshaken SessionPhase = "handshaken"

	// PhaseAuthenticating means the get_profile request is in flight
	PhaseAuthenticating SessionPhase = "authenticating"

	// PhaseTerminal means the session produced its outcome and is spent
	PhaseTerminal SessionPhase = "terminal"
)

// SessionState is the mutable state of a single-use portal session. A token
// obtained here belongs to exactly one identity; once the session is terminal
// it is discarded, never rebound to a different identity.
type SessionState struct {
	Identity DeviceIdentity

	// Token is the opaque session token, empty until a handshake succeeds
	Token string

	Phase SessionPhase
}

// NewSessionState creates a fresh session for one identity.
func NewSessionState(identity DeviceIdentity) *SessionState {
	return &SessionState{
		Identity: identity,
		Phase:    PhaseNew,
	}
}

// CanHandshake reports whether a handshake may start. A handshaken session
// may handshake again for the same identity, presenting its held token; the
// server either issues a fresh one or accepts the reuse.
func (s *SessionState) CanHandshake() bool {
	return s.Phase == PhaseNew || s.Phase == PhaseHandshaken
}

// CanAuthenticate reports whether authenticate may start.
func (s *SessionState) CanAuthenticate() bool {
	return s.Phase == PhaseHandshaken
}

// Terminal reports whether the session is spent.
func (s *SessionState) Terminal() bool {
	return s.Phase == PhaseTerminal
}
