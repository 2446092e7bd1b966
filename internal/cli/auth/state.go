package auth

// State is the login state of a Manager.
type State int

// Login states.
const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateConflictPending
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateConflictPending:
		return "conflict_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
