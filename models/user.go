package models

import (
	"encoding/json"
	"strings"
)

// Profile is the logged-in operator as returned by /auth/login.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

// UnmarshalJSON tolerates numeric ids.
func (p *Profile) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Username string          `json:"username"`
		Name     string          `json:"name"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Username, p.Name = raw.Username, raw.Name
	p.ID = strings.Trim(string(raw.ID), `"`)
	if p.ID == "null" {
		p.ID = ""
	}
	return nil
}
