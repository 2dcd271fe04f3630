package model

import (
	"fmt"
	"strconv"
)

// PlaceholderImage is shown when token artwork cannot be fetched.
const PlaceholderImage = "https://placehold.co/512x512/png?text=Lil+Noun"

// TokenID identifies a single token of the qualifying collection.
type TokenID uint64

func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseTokenID parses a decimal token id.
func ParseTokenID(s string) (TokenID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token id %q: %w", s, err)
	}
	return TokenID(v), nil
}

// TokenDisplay is the best-effort presentation data of a token.
type TokenDisplay struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Placeholder bool   `json:"placeholder"`
}

// PlaceholderDisplay returns the display used when enrichment is unavailable.
func PlaceholderDisplay(id TokenID) TokenDisplay {
	return TokenDisplay{
		Name:        "Lil Noun #" + id.String(),
		Image:       PlaceholderImage,
		Placeholder: true,
	}
}

// CandidateToken is a token the user may pick for a claim.
type CandidateToken struct {
	ID      TokenID      `json:"id"`
	Display TokenDisplay `json:"display"`
}
