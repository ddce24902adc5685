package consumption

import (
	"fmt"
)

// Tier identifies a usage tier. Each tier maps to a full Limits preset;
// tier changes swap the whole mapping at once, never individual fields.
type Tier string

const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// IsValid checks if the tier is a known usage tier.
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPremium, TierEnterprise:
		return true
	default:
		return false
	}
}

// ParseTier parses a string into a Tier, returning an error if invalid.
func ParseTier(s string) (Tier, error) {
	tier := Tier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid usage tier: %q, valid tiers are: free, premium, enterprise", s)
	}
	return tier, nil
}

// Limits holds every named quota the guard enforces. A Limits value is
// immutable once handed to the guard; tier adjustment replaces it wholesale.
type Limits struct {
	RequestsPerMinute     int `yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour       int `yaml:"requests_per_hour" json:"requests_per_hour"`
	RequestsPerDay        int `yaml:"requests_per_day" json:"requests_per_day"`
	TokensPerRequest      int `yaml:"tokens_per_request" json:"tokens_per_request"`
	TokensPerHour         int `yaml:"tokens_per_hour" json:"tokens_per_hour"`
	TokensPerDay          int `yaml:"tokens_per_day" json:"tokens_per_day"`
	MaxConcurrentRequests int `yaml:"max_concurrent_requests" json:"max_concurrent_requests"`
	MaxInputLength        int `yaml:"max_input_length" json:"max_input_length"`
	MaxOutputLength       int `yaml:"max_output_length" json:"max_output_length"`
}

// DefaultLimits returns the free-tier quota preset.
func DefaultLimits() Limits {
	return Limits{
		RequestsPerMinute:     10,
		RequestsPerHour:       100,
		RequestsPerDay:        500,
		TokensPerRequest:      4000,
		TokensPerHour:         50000,
		TokensPerDay:          200000,
		MaxConcurrentRequests: 5,
		MaxInputLength:        8000,
		MaxOutputLength:       2000,
	}
}

// TierLimits returns the full preset for a tier. Unknown tiers get the
// free preset.
func TierLimits(tier Tier) Limits {
	l := DefaultLimits()
	switch tier {
	case TierPremium:
		l.RequestsPerMinute = 30
		l.RequestsPerHour = 500
		l.RequestsPerDay = 2000
		l.TokensPerDay = 1000000
	case TierEnterprise:
		l.RequestsPerMinute = 100
		l.RequestsPerHour = 2000
		l.RequestsPerDay = 10000
		l.TokensPerDay = 5000000
	}
	return l
}
