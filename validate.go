package zipcodes

import (
	"encoding/json"
	"fmt"
	"os"
)

// minZipcodeCount guards against shipping a truncated dataset artifact.
const minZipcodeCount = 80

// knownZipcode defines a known lookup for functional validation.
type knownZipcode struct {
	code      string
	wantCity  string
	wantState string
}

// knownZipcodes are used to validate that exact-match lookup works against
// the shipped artifact. Chosen to be stable, unambiguous records.
var knownZipcodes = []knownZipcode{
	{"06902", "Stamford", "CT"},
	{"77429", "Cypress", "TX"},
	{"78701", "Austin", "TX"},
	{"94103", "San Francisco", "CA"},
	{"60601", "Chicago", "IL"},
}

// knownCoord defines known coordinates for reverse lookup validation.
type knownCoord struct {
	lat, lng float64
	wantCode string
}

// knownCoords use each record's own centroid so the nearest match is exact.
var knownCoords = []knownCoord{
	{41.0511, -73.5444, "06902"},  // Stamford, CT
	{29.9857, -95.6548, "77429"},  // Cypress, TX
	{37.4443, -122.1497, "94301"}, // Palo Alto, CA
}

// ValidateData loads the embedded dataset and performs integrity and
// functional checks. Returns an error if validation fails.
func ValidateData() error {
	records := dataset()
	if len(records) < minZipcodeCount {
		return fmt.Errorf("record count too low: got %d, want >= %d", len(records), minZipcodeCount)
	}

	for _, kz := range knownZipcodes {
		matched, err := Matching(kz.code, nil)
		if err != nil {
			return fmt.Errorf("matching %q: %w", kz.code, err)
		}
		if len(matched) == 0 {
			return fmt.Errorf("no records for known zipcode %q", kz.code)
		}
		if matched[0].City != kz.wantCity || matched[0].State != kz.wantState {
			return fmt.Errorf("matching(%q) = %s, %s, want %s, %s",
				kz.code, matched[0].City, matched[0].State, kz.wantCity, kz.wantState)
		}
	}

	for _, kc := range knownCoords {
		r, ok := ReverseLookup(kc.lat, kc.lng)
		if !ok {
			return fmt.Errorf("reverseLookup(%v, %v) found nothing, want %q", kc.lat, kc.lng, kc.wantCode)
		}
		if r.ZipCode != kc.wantCode {
			return fmt.Errorf("reverseLookup(%v, %v) = %q, want %q", kc.lat, kc.lng, r.ZipCode, kc.wantCode)
		}
	}

	return nil
}

// RebuildData re-encodes a raw JSON dataset drop into the compact artifact
// format, verifying that it parses into the record schema and meets the
// minimum record count. The output must be compressed manually afterwards:
//
//	bzip2 -f data/zipcodes.json
func RebuildData(rawPath, outPath string) error {
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("reading raw dataset: %w", err)
	}

	var records []Zipcode
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parsing raw dataset: %w", err)
	}
	if len(records) < minZipcodeCount {
		return fmt.Errorf("raw dataset too small: got %d records, want >= %d", len(records), minZipcodeCount)
	}
	for i, r := range records {
		cleaned, err := cleanZipcode(r.ZipCode)
		if err != nil {
			return fmt.Errorf("record %d has malformed code %q: %w", i, r.ZipCode, err)
		}
		if cleaned != r.ZipCode {
			return fmt.Errorf("record %d has non-canonical code %q", i, r.ZipCode)
		}
	}

	compact, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(outPath, compact, 0644); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}
