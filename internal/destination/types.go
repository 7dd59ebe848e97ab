package destination

// Origin marks where a descriptor came from. It decides which media
// resolver handles the descriptor.
type Origin int

const (
	// OriginSynthetic descriptors are generated and use placeholder media.
	OriginSynthetic Origin = iota
	// OriginReal descriptors are the fixed list sourced from photo search.
	OriginReal
)

// String returns the label used in log lines.
func (o Origin) String() string {
	if o == OriginReal {
		return "REAL"
	}
	return "MOCK"
}

// Descriptor describes one destination before media and content enrichment.
type Descriptor struct {
	Name        string
	Region      string
	AirportID   string
	AirportCode string
	Origin      Origin
}

// MediaSet holds the image and video URLs resolved for one descriptor.
type MediaSet struct {
	Images []string
	Videos []string
}

// Record is the payload submitted to the destination-creation endpoint.
// The remote service assigns the id.
type Record struct {
	Name                string   `json:"name"`
	Region              string   `json:"region"`
	NearestAirportID    string   `json:"nearestAirportId"`
	NearestAirportCode  string   `json:"nearestAirportCode"`
	Description         string   `json:"description"`
	Highlights          []string `json:"highlights"`
	Images              []string `json:"images"`
	Videos              []string `json:"videos"`
	VirtualTourURL      string   `json:"virtualTourUrl"`
	BestSeason          string   `json:"bestSeason"`
	AverageStayDuration int      `json:"averageStayDuration"`
	PopularityScore     float64  `json:"popularityScore"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	CreatedBy           string   `json:"createdBy"`
	Active              bool     `json:"active"`
}

// Destination is a stored record together with its assigned id.
type Destination struct {
	ID string `json:"id"`
	Record
}
