// Package zipcodes provides offline lookup and filtering of US postal codes
// from an embedded dataset. Safe for concurrent use.
package zipcodes

import (
	"bytes"
	"compress/bzip2"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
)

//go:embed data/zipcodes.json.bz2
var datasetBytes []byte

// zipcodeLength is the number of leading digits that identify a US zipcode.
const zipcodeLength = 5

// Zip code type classifications used by the dataset.
const (
	TypeStandard = "STANDARD"
	TypePOBox    = "PO BOX"
	TypeUnique   = "UNIQUE"
	TypeMilitary = "MILITARY"
)

// Validation errors returned by the query functions.
var (
	ErrInvalidFormat     = errors.New(`invalid format, zipcode must be of the format: "#####" or "#####-####"`)
	ErrInvalidCharacters = errors.New(`invalid characters, zipcode may only contain digits and "-"`)
)

// Zipcode is one record of the embedded dataset. Fields mirror the dataset's
// JSON row format. Latitude and longitude are kept as strings exactly as they
// appear in the dataset; use Coordinates to parse them.
type Zipcode struct {
	AcceptableCities   []string `json:"acceptable_cities"`
	Active             bool     `json:"active"`
	AreaCodes          []string `json:"area_codes"`
	City               string   `json:"city"`
	Country            string   `json:"country"`
	County             string   `json:"county"`
	Lat                string   `json:"lat"`
	Long               string   `json:"long"`
	State              string   `json:"state"`
	Timezone           string   `json:"timezone"`
	UnacceptableCities []string `json:"unacceptable_cities"`
	WorldRegion        string   `json:"world_region"`
	ZipCode            string   `json:"zip_code"`
	ZipCodeType        string   `json:"zip_code_type"`
}

// Coordinates parses the record's latitude and longitude. Records without
// coordinates (some military destinations) return an error.
func (z Zipcode) Coordinates() (lat, lng float64, err error) {
	lat, err = strconv.ParseFloat(z.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude %q: %w", z.Lat, err)
	}
	lng, err = strconv.ParseFloat(z.Long, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude %q: %w", z.Long, err)
	}
	return lat, lng, nil
}

// clone returns a copy whose slice fields do not alias the receiver's.
func (z Zipcode) clone() Zipcode {
	z.AcceptableCities = slices.Clone(z.AcceptableCities)
	z.AreaCodes = slices.Clone(z.AreaCodes)
	z.UnacceptableCities = slices.Clone(z.UnacceptableCities)
	return z
}

// Singleton for the parsed dataset. Loaded at most once; all reads after
// initialization are lock-free.
var (
	allZipcodes []Zipcode
	loadOnce    sync.Once
)

// dataset returns the shared parsed records, loading them on first use.
// The returned slice is shared by all callers and must not be mutated.
func dataset() []Zipcode {
	loadOnce.Do(func() {
		allZipcodes = mustLoadDataset()
	})
	return allZipcodes
}

// mustLoadDataset decompresses and decodes the embedded dataset. The artifact
// is fixed at build time; failure here means a corrupt build, so it panics
// rather than returning an error no caller could act on.
func mustLoadDataset() []Zipcode {
	raw, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(datasetBytes)))
	if err != nil {
		panic(fmt.Sprintf("failed to decompress zipcode database: %v", err))
	}
	var zipcodes []Zipcode
	if err := json.Unmarshal(raw, &zipcodes); err != nil {
		panic(fmt.Sprintf("failed to deserialize zipcode database: %v", err))
	}
	return zipcodes
}

// cleanZipcode trims surrounding whitespace and validates the first five
// characters of the input. Anything after the leading five digits (a ZIP+4
// suffix, with or without a "-" or " " separator) is accepted and ignored.
func cleanZipcode(zipcode string) (string, error) {
	z := strings.TrimSpace(zipcode)
	if len(z) < zipcodeLength {
		return "", ErrInvalidFormat
	}
	z = z[:zipcodeLength]
	for i := 0; i < zipcodeLength; i++ {
		if z[i] < '0' || z[i] > '9' {
			return "", ErrInvalidCharacters
		}
	}
	return z, nil
}

// Matching returns every record whose code equals the canonical five-digit
// form of zipcode, in dataset order. Duplicate codes in the dataset yield
// multiple records. An unmatched code yields an empty result, not an error.
//
// A nil zipcodes slice searches the embedded dataset; any non-nil slice
// (including an empty one) is searched instead. Override slices are only
// read, never retained.
func Matching(zipcode string, zipcodes []Zipcode) ([]Zipcode, error) {
	z, err := cleanZipcode(zipcode)
	if err != nil {
		return nil, err
	}
	if zipcodes == nil {
		zipcodes = dataset()
	}
	matched := []Zipcode{}
	for _, r := range zipcodes {
		if r.ZipCode == z {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// IsReal reports whether the given zipcode exists in the embedded dataset.
func IsReal(zipcode string) (bool, error) {
	matched, err := Matching(zipcode, nil)
	if err != nil {
		return false, err
	}
	return len(matched) > 0, nil
}

// Filter reports whether a record should be kept.
type Filter func(Zipcode) bool

// FilterBy returns every record for which all filters hold, in source order.
// Filters are evaluated in order and stop at the first failure per record.
// An empty filter list yields the whole source. The override rule is the same
// as for Matching. The error return is always nil today; it is kept so the
// query functions share one call shape.
func FilterBy(filters []Filter, zipcodes []Zipcode) ([]Zipcode, error) {
	if zipcodes == nil {
		zipcodes = dataset()
	}
	kept := []Zipcode{}
	for _, r := range zipcodes {
		keep := true
		for _, f := range filters {
			if !f(r) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// ListAll returns a copy of the embedded dataset in its original order. The
// copy is independent of the shared records, including the alias and area
// code slices, so callers may mutate it freely.
func ListAll() []Zipcode {
	src := dataset()
	out := make([]Zipcode, len(src))
	for i, r := range src {
		out[i] = r.clone()
	}
	return out
}
