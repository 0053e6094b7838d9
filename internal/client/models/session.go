package models

// User is an account known to the backend. It is also the contributor
// relation hydrated on catalog entries.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns Name, falling back to Email and then to the id.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return string(u.ID)
	}
}

// Session identifies the current user. The backend-issued credential is not
// part of it: the session service keeps that to itself.
type Session struct {
	User User
}

func (s Session) Name() string { return s.User.DisplayName() }
