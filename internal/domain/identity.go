package domain

// Identity is the transient claim set decoded from a bearer token. It
// travels with the request and is never persisted on its own.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}
