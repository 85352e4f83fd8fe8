package agecolor

import (
	"fmt"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"golang.org/x/exp/constraints"
)

type RGB struct {
	R uint8
	G uint8
	B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var NearExpiry = RGB{R: 255, G: 0, B: 255}

// Mapper ramps green -> yellow -> red over the validity period and flags the
// final ExpiryWindowDays in magenta.
type Mapper struct {
	ExpiryWindowDays int
	ValidityDays     int
}

var DefaultMapper = Mapper{
	ExpiryWindowDays: pkg.DAYS_TO_EXPIRY,
	ValidityDays:     pkg.VALIDITY_DAYS,
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m Mapper) ColorForAge(ageInDays int) RGB {
	if m.NearExpiry(ageInDays) {
		return NearExpiry
	}
	r := clamp(-15+6*ageInDays, 0, 255)
	g := clamp(525-6*ageInDays, 0, 255)
	return RGB{R: uint8(r), G: uint8(g), B: 0}
}

// NearExpiry reports whether ageInDays falls in the expiry window.
func (m Mapper) NearExpiry(ageInDays int) bool {
	return ageInDays > m.ValidityDays-m.ExpiryWindowDays
}

func ColorForAge(ageInDays int) RGB {
	return DefaultMapper.ColorForAge(ageInDays)
}
