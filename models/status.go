package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Status is the loan lifecycle state. Upstream spells it in Indonesian.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusLost     Status = "lost"
	StatusReturned Status = "returned"
)

var ErrUnknownStatus = errors.New("unknown loan status")

var wireNames = map[Status]string{
	StatusBorrowed: "dipinjam",
	StatusLost:     "hilang",
	StatusReturned: "dikembalikan",
}

// Statuses lists every status in selector order.
func Statuses() []Status { return []Status{StatusBorrowed, StatusLost, StatusReturned} }

// ParseStatus accepts either spelling, case-insensitive.
func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for st, wire := range wireNames {
		if v == string(st) || v == wire {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s Status) Valid() bool { _, ok := wireNames[s]; return ok }

// Wire returns the upstream spelling.
func (s Status) Wire() string { return wireNames[s] }

// Label is the capitalised wire spelling shown in the status selector.
func (s Status) Label() string {
	w := s.Wire()
	if w == "" {
		return ""
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return json.Marshal(s.Wire())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
