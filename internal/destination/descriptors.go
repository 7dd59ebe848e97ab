package destination

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// maxAirportCodes is the number of distinct 3-letter codes.
const maxAirportCodes = 26 * 26 * 26

// SyntheticRegions are the regions synthetic descriptors are drawn from.
var SyntheticRegions = []string{"North America", "South America", "Europe", "Asia", "Oceania"}

// RealDescriptors returns the fixed list of destinations whose imagery is
// sourced from photo search.
func RealDescriptors() []Descriptor {
	return []Descriptor{
		{Name: "Thiès", Region: "West Africa", AirportID: "airport-123", AirportCode: "DSS", Origin: OriginReal},
		{Name: "Dakar", Region: "West Africa", AirportID: "airport-001", AirportCode: "DSS", Origin: OriginReal},
		{Name: "Lagos", Region: "West Africa", AirportID: "airport-002", AirportCode: "LOS", Origin: OriginReal},
		{Name: "Nairobi", Region: "East Africa", AirportID: "airport-003", AirportCode: "NBO", Origin: OriginReal},
		{Name: "Accra", Region: "West Africa", AirportID: "airport-004", AirportCode: "ACC", Origin: OriginReal},
	}
}

// GenerateSynthetic builds n fictional descriptors. Airport codes are unique
// within the returned slice.
func GenerateSynthetic(f *gofakeit.Faker, n int) ([]Descriptor, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative synthetic count %d", n)
	}
	if n > maxAirportCodes {
		return nil, fmt.Errorf("cannot generate %d unique airport codes, at most %d exist", n, maxAirportCodes)
	}

	seen := make(map[string]struct{}, n)
	out := make([]Descriptor, 0, n)
	for i := 0; i < n; i++ {
		code := uniqueCode(f, seen)
		out = append(out, Descriptor{
			Name:        "Mock " + f.City(),
			Region:      f.RandomString(SyntheticRegions),
			AirportID:   fmt.Sprintf("mock-airport-%03d", i),
			AirportCode: code,
			Origin:      OriginSynthetic,
		})
	}
	return out, nil
}

func uniqueCode(f *gofakeit.Faker, seen map[string]struct{}) string {
	for {
		code := strings.ToUpper(f.LetterN(3))
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		return code
	}
}

// AllDescriptors returns the real descriptors followed by enough synthetic
// ones to reach total.
func AllDescriptors(f *gofakeit.Faker, total int) ([]Descriptor, error) {
	if total < 0 {
		return nil, fmt.Errorf("negative destination count %d", total)
	}

	fixed := RealDescriptors()
	if total < len(fixed) {
		return fixed[:total], nil
	}

	synthetic, err := GenerateSynthetic(f, total-len(fixed))
	if err != nil {
		return nil, fmt.Errorf("generating synthetic descriptors: %w", err)
	}
	return append(fixed, synthetic...), nil
}
