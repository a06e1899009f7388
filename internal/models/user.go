package models

import (
	"encoding/json"
)

// User is the profile returned by registration and kept in the session store.
type User struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// AuthResult is the body of a successful registration.
//
// User is kept raw so the session store persists exactly what the server sent.
type AuthResult struct {
	AccessToken string          `json:"accessToken"`
	User        json.RawMessage `json:"user"`
}

// Credentials is the registration request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
