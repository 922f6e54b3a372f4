package zipcodes

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxFuzzyDistance caps ByCity's edit distance to keep comparisons cheap and
// to stop high distances from matching unrelated city names.
const maxFuzzyDistance = 3

// ByState keeps records in the given two-letter state code.
func ByState(state string) Filter {
	return func(z Zipcode) bool {
		return strings.EqualFold(z.State, state)
	}
}

// ByCounty keeps records in the given county.
func ByCounty(county string) Filter {
	return func(z Zipcode) bool {
		return strings.EqualFold(z.County, county)
	}
}

// ByActive keeps records whose active flag equals active.
func ByActive(active bool) Filter {
	return func(z Zipcode) bool {
		return z.Active == active
	}
}

// ByType keeps records of the given classification (TypeStandard, TypePOBox,
// TypeUnique or TypeMilitary).
func ByType(zipCodeType string) Filter {
	return func(z Zipcode) bool {
		return strings.EqualFold(z.ZipCodeType, zipCodeType)
	}
}

// ByAreaCode keeps records served by the given telephone area code.
func ByAreaCode(areaCode string) Filter {
	return func(z Zipcode) bool {
		for _, ac := range z.AreaCodes {
			if ac == areaCode {
				return true
			}
		}
		return false
	}
}

// ByCity keeps records whose city name, or one of its acceptable aliases,
// matches name. A fuzzyDistance of 0 requires an exact case-insensitive
// match; otherwise names within the given edit distance match, capped at
// maxFuzzyDistance. A name listed in a record's unacceptable aliases never
// matches that record.
func ByCity(name string, fuzzyDistance int) Filter {
	if fuzzyDistance > maxFuzzyDistance {
		fuzzyDistance = maxFuzzyDistance
	}
	return func(z Zipcode) bool {
		for _, un := range z.UnacceptableCities {
			if strings.EqualFold(un, name) {
				return false
			}
		}
		if fuzzyMatch(name, z.City, fuzzyDistance) {
			return true
		}
		for _, alt := range z.AcceptableCities {
			if fuzzyMatch(name, alt, fuzzyDistance) {
				return true
			}
		}
		return false
	}
}

// WithinGeohash keeps records whose centroid geohash starts with prefix.
// Records without coordinates never match. An empty prefix matches every
// record that has coordinates.
func WithinGeohash(prefix string) Filter {
	return func(z Zipcode) bool {
		h := z.Geohash()
		if h == "" {
			return false
		}
		return strings.HasPrefix(h, prefix)
	}
}

// fuzzyMatch compares two names with optional Levenshtein distance tolerance.
// If maxDist is 0, performs an exact case-insensitive match.
func fuzzyMatch(query, candidate string, maxDist int) bool {
	if maxDist == 0 {
		return strings.EqualFold(query, candidate)
	}
	dist := levenshtein.ComputeDistance(
		strings.ToLower(query),
		strings.ToLower(candidate),
	)
	return dist <= maxDist
}
