package destination

import (
	"fmt"
	"math"

	"github.com/brianvoe/gofakeit/v7"
)

// DefaultCreatedBy is the creator id stamped on every seeded record.
const DefaultCreatedBy = "admin-user-123"

const (
	minHighlights = 3
	maxHighlights = 5
	minStay       = 3
	maxStay       = 10
	minPopularity = 5.0
	maxPopularity = 9.9
	fillerWords   = 12
)

// Highlights is the vocabulary highlight subsets are sampled from.
var Highlights = []string{"Culture", "Cuisine", "Nature", "Beaches", "History", "Adventure", "Shopping"}

// BestSeasons are the values a record's best season is chosen from.
var BestSeasons = []string{"Year-round", "November to May", "June to October"}

// Builder turns a descriptor and its media into a submission record.
type Builder struct {
	faker     *gofakeit.Faker
	createdBy string
}

// NewBuilder constructs a Builder drawing randomness from f.
func NewBuilder(f *gofakeit.Faker, createdBy string) *Builder {
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}
	return &Builder{faker: f, createdBy: createdBy}
}

// Build produces the record for d. The media slices are copied as-is.
func (b *Builder) Build(d Descriptor, media MediaSet) Record {
	return Record{
		Name:                d.Name,
		Region:              d.Region,
		NearestAirportID:    d.AirportID,
		NearestAirportCode:  d.AirportCode,
		Description:         b.description(d),
		Highlights:          b.highlights(),
		Images:              media.Images,
		Videos:              media.Videos,
		VirtualTourURL:      "",
		BestSeason:          b.faker.RandomString(BestSeasons),
		AverageStayDuration: b.faker.IntRange(minStay, maxStay),
		PopularityScore:     round(b.faker.Float64Range(minPopularity, maxPopularity), 1),
		Latitude:            round(b.faker.Float64Range(-90, 90), 4),
		Longitude:           round(b.faker.Float64Range(-180, 180), 4),
		CreatedBy:           b.createdBy,
		Active:              true,
	}
}

func (b *Builder) description(d Descriptor) string {
	return fmt.Sprintf("Explore the vibrant %s, a jewel in %s. %s", d.Name, d.Region, b.faker.Sentence(fillerWords))
}

// highlights samples without replacement by shuffling a copy of the vocabulary.
func (b *Builder) highlights() []string {
	pool := make([]string, len(Highlights))
	copy(pool, Highlights)
	b.faker.ShuffleStrings(pool)
	return pool[:b.faker.IntRange(minHighlights, maxHighlights)]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
