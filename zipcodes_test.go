package zipcodes

import (
	"reflect"
	"testing"

	check "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { check.TestingT(t) }

type ZipcodesSuite struct{}

var _ = check.Suite(&ZipcodesSuite{})

func (s *ZipcodesSuite) TestDatasetLoads(c *check.C) {
	records := dataset()
	c.Assert(len(records), check.Not(check.Equals), 0)
	c.Assert(records, check.FitsTypeOf, []Zipcode(nil))
	// Repeated access returns the same shared slice, not a reload.
	c.Assert(&dataset()[0], check.Equals, &records[0])
}

func (s *ZipcodesSuite) TestCleanZipcode(c *check.C) {
	valid := []struct{ in, want string }{
		{"06902", "06902"},
		{"06902-1234", "06902"},
		{"06902 1234", "06902"},
		{"  06902  ", "06902"},
		{"069021234", "06902"}, // ZIP+4 missing its separator still passes
		{"06902xyz", "06902"},
	}
	for _, tc := range valid {
		got, err := cleanZipcode(tc.in)
		c.Assert(err, check.IsNil, check.Commentf("input %q", tc.in))
		c.Assert(got, check.Equals, tc.want)
	}

	for _, in := range []string{"", "0690", "  069  ", "1234", "    "} {
		_, err := cleanZipcode(in)
		c.Assert(err, check.Equals, ErrInvalidFormat, check.Commentf("input %q", in))
	}

	for _, in := range []string{"0690a", "abcde", "06 90", "-6902", "069-02222"} {
		_, err := cleanZipcode(in)
		c.Assert(err, check.Equals, ErrInvalidCharacters, check.Commentf("input %q", in))
	}
}

func (s *ZipcodesSuite) TestMatching(c *check.C) {
	matched, err := Matching("06902", nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 1)
	c.Assert(matched[0].City, check.Equals, "Stamford")
	c.Assert(matched[0].State, check.Equals, "CT")
	c.Assert(matched[0].Country, check.Equals, "US")

	// ZIP+4 forms match on the leading five digits.
	for _, in := range []string{"06902-1234", "06902 1234", " 06902 "} {
		matched, err = Matching(in, nil)
		c.Assert(err, check.IsNil)
		c.Assert(len(matched), check.Equals, 1, check.Commentf("input %q", in))
	}

	// Unmatched codes yield an empty result, not an error.
	for _, in := range []string{"00000", "00000-0000", "00000 0000"} {
		matched, err = Matching(in, nil)
		c.Assert(err, check.IsNil)
		c.Assert(len(matched), check.Equals, 0, check.Commentf("input %q", in))
	}

	_, err = Matching("6902", nil)
	c.Assert(err, check.Equals, ErrInvalidFormat)
	_, err = Matching("0690a", nil)
	c.Assert(err, check.Equals, ErrInvalidCharacters)
}

func (s *ZipcodesSuite) TestMatchingDuplicateCodes(c *check.C) {
	// 42223 (Fort Campbell) spans the KY/TN border and has two records.
	matched, err := Matching("42223", nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 2)
	c.Assert(matched[0].State, check.Equals, "KY")
	c.Assert(matched[1].State, check.Equals, "TN")
	c.Assert(matched[0].ZipCodeType, check.Equals, TypeMilitary)
}

func (s *ZipcodesSuite) TestMatchingOverride(c *check.C) {
	stamford, err := Matching("06902", nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(stamford), check.Equals, 1)

	// An override restricts the search strictly to the supplied records.
	matched, err := Matching("77429", stamford)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 0)

	matched, err = Matching("06902", stamford)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 1)

	// A non-nil empty override is an explicit (empty) search scope,
	// not a request for the embedded dataset.
	matched, err = Matching("06902", []Zipcode{})
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 0)
}

func (s *ZipcodesSuite) TestIsReal(c *check.C) {
	exists, err := IsReal("06902")
	c.Assert(err, check.IsNil)
	c.Assert(exists, check.Equals, true)

	exists, err = IsReal("06902-1234")
	c.Assert(err, check.IsNil)
	c.Assert(exists, check.Equals, true)

	exists, err = IsReal("00000")
	c.Assert(err, check.IsNil)
	c.Assert(exists, check.Equals, false)

	_, err = IsReal("069")
	c.Assert(err, check.Equals, ErrInvalidFormat)
	_, err = IsReal("o6902")
	c.Assert(err, check.Equals, ErrInvalidCharacters)
}

func (s *ZipcodesSuite) TestIsRealAgreesWithMatching(c *check.C) {
	for _, code := range []string{"06902", "42223", "00000", "99999"} {
		matched, err := Matching(code, nil)
		c.Assert(err, check.IsNil)
		exists, err := IsReal(code)
		c.Assert(err, check.IsNil)
		c.Assert(exists, check.Equals, len(matched) > 0, check.Commentf("code %q", code))
	}
}

func (s *ZipcodesSuite) TestFilterByEmptyFilterList(c *check.C) {
	all, err := FilterBy(nil, nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(all), check.Equals, len(ListAll()))
}

func (s *ZipcodesSuite) TestFilterByANDSemantics(c *check.C) {
	texas, err := FilterBy([]Filter{ByState("TX")}, nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(texas), check.Not(check.Equals), 0)

	standardTexas, err := FilterBy([]Filter{ByState("TX"), ByType(TypeStandard)}, nil)
	c.Assert(err, check.IsNil)

	// Filtering in two steps gives the same result as one combined pass.
	viaTwoSteps, err := FilterBy([]Filter{ByType(TypeStandard)}, texas)
	c.Assert(err, check.IsNil)
	c.Assert(standardTexas, check.DeepEquals, viaTwoSteps)

	for _, r := range standardTexas {
		c.Assert(r.State, check.Equals, "TX")
		c.Assert(r.ZipCodeType, check.Equals, TypeStandard)
	}
}

func (s *ZipcodesSuite) TestFilterByShortCircuit(c *check.C) {
	calls := 0
	never := func(Zipcode) bool { calls++; return false }
	counted := func(Zipcode) bool { calls++; return true }

	matched, err := FilterBy([]Filter{never, counted}, nil)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 0)
	// The second filter never ran: one call per record.
	c.Assert(calls, check.Equals, len(dataset()))
}

func (s *ZipcodesSuite) TestFilterByOverride(c *check.C) {
	stamford, err := Matching("06902", nil)
	c.Assert(err, check.IsNil)

	matched, err := FilterBy([]Filter{ByState("CT")}, stamford)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 1)

	matched, err = FilterBy([]Filter{ByState("TX")}, stamford)
	c.Assert(err, check.IsNil)
	c.Assert(len(matched), check.Equals, 0)
}

func (s *ZipcodesSuite) TestListAllIndependence(c *check.C) {
	first := ListAll()
	c.Assert(len(first), check.Not(check.Equals), 0)

	// Mutate the copy, including a nested slice field.
	first[0].City = "Mutated"
	first[0].ZipCode = "00000"
	if len(first[0].AreaCodes) > 0 {
		first[0].AreaCodes[0] = "000"
	}

	second := ListAll()
	c.Assert(second[0].City, check.Not(check.Equals), "Mutated")
	c.Assert(second[0].ZipCode, check.Not(check.Equals), "00000")
	if len(second[0].AreaCodes) > 0 {
		c.Assert(second[0].AreaCodes[0], check.Not(check.Equals), "000")
	}
}

func (s *ZipcodesSuite) TestQueryDeterminism(c *check.C) {
	a, err := Matching("42223", nil)
	c.Assert(err, check.IsNil)
	b, err := Matching("42223", nil)
	c.Assert(err, check.IsNil)
	c.Assert(reflect.DeepEqual(a, b), check.Equals, true)

	fa, err := FilterBy([]Filter{ByState("CA")}, nil)
	c.Assert(err, check.IsNil)
	fb, err := FilterBy([]Filter{ByState("CA")}, nil)
	c.Assert(err, check.IsNil)
	c.Assert(reflect.DeepEqual(fa, fb), check.Equals, true)
}
