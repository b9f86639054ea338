package models

import "strings"

// Name is an immutable first/last name pair. Two names are equal when both parts match.
type Name struct {
	First string `json:"first_name"`
	Last  string `json:"last_name"`
}

// NewName trims surrounding whitespace from both parts.
func NewName(first, last string) Name {
	return Name{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
}

// Full joins the parts as "First Last".
func (n Name) Full() string {
	return n.First + " " + n.Last
}

func (n Name) String() string {
	return n.Full()
}
