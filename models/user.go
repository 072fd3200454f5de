package models

// User resource owner model
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
}

// GetID user id
func (u *User) GetID() string {
	return u.ID
}

// GetUsername login name
func (u *User) GetUsername() string {
	return u.Username
}

// GetName display name for the consent form
func (u *User) GetName() string {
	if u.Name == "" {
		return u.Username
	}
	return u.Name
}

// GetPasswordHash bcrypt hash of the password
func (u *User) GetPasswordHash() string {
	return u.PasswordHash
}

// SecondFactor one enrolled second factor for a user
type SecondFactor struct {
	OwnerID string
	Type    string
	Secret  string
}

// GetType factor type, e.g. "totp"
func (f *SecondFactor) GetType() string {
	return f.Type
}

// GetSecret shared secret used to verify the challenge
func (f *SecondFactor) GetSecret() string {
	return f.Secret
}
