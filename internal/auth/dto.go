package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login
// requests.
type LoginDTO struct {
	UserCode string `json:"user_code"`
	Password string `json:"password"`
}

// Validate rejects blank credentials before any store call. Both fields are
// checked together so the caller cannot distinguish which one was missing.
func (d LoginDTO) Validate() error {
	if d.UserCode == "" || d.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
