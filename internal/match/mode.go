package match

import (
	"fmt"
	"strings"
	"unicode"

	"instant-mapper/internal/common"
)

// Mode selects how field names are compared.
type Mode int

const (
	// ModeCaseInsensitive matches names ignoring case only ("OrderID" == "orderid").
	ModeCaseInsensitive Mode = iota
	// ModeNormalized also ignores separators ("order_id" == "OrderID").
	ModeNormalized
)

const (
	ModeNameCaseInsensitive = "case_insensitive"
	ModeNameNormalized      = "normalized"
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCaseInsensitive:
		return ModeNameCaseInsensitive
	case ModeNormalized:
		return ModeNameNormalized
	default:
		return common.UnknownStr
	}
}

// ParseMode parses a configuration name. The empty string selects ModeCaseInsensitive.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ModeNameCaseInsensitive:
		return ModeCaseInsensitive, nil
	case ModeNameNormalized:
		return ModeNormalized, nil
	default:
		return 0, fmt.Errorf("unknown matching mode %q", name)
	}
}

// Key returns the key a field name is indexed and looked up under.
func Key(name string, mode Mode) string {
	if mode == ModeNormalized {
		return NormalizeIdent(name)
	}

	return strings.ToLower(name)
}

// NormalizeIdent lowercases s and drops the separators '_', '-', '.' and
// space, so "Price-Cents", "price_cents" and "PriceCents" share one key.
func NormalizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', ' ':
			return -1
		default:
			return unicode.ToLower(r)
		}
	}, s)
}
