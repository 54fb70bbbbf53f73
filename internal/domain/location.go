package domain

import "strings"

// DefaultLocation is used wherever a location is missing.
const DefaultLocation = "Aveiro,PT"

// placeholderLocation shows up in seeded data and is treated as unset.
const placeholderLocation = "Test Location"

func NormalizeLocation(loc string) string {
	if strings.TrimSpace(loc) == "" || loc == placeholderLocation {
		return DefaultLocation
	}
	return loc
}
