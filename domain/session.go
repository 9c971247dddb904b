package domain

// Session pairs a bearer token with the user it authenticates. The two are
// persisted and cleared together; a session with only one of them set is
// treated as absent.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries both halves of the invariant.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != 0
}
