package models

import "github.com/shopspring/decimal"

// Owner is a pet-owner profile wrapping a base user identity. Profiles are
// read-only from the booking engine's perspective.
type Owner struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

// Sitter is a pet-sitter profile. HourlyRate prices bookings.
type Sitter struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Name       string          `json:"name,omitempty"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
}

// Pet belongs to exactly one owner. Existence and ownership are verified at
// booking creation; pets are never mutated here.
type Pet struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name,omitempty"`
}
