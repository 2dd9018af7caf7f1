package domain

// Product is the canonical storefront record. Search results, the
// comparison table and detail views all render the same shape, so JSON
// field names follow the storefront's camelCase contract.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	OldPrice    int64  `json:"oldPrice"`
	DaysAgo     string `json:"daysAgo"`
	BeebomScore int    `json:"beebomScore"`

	// Rating is always within [0, 5].
	Rating  float64 `json:"rating"`
	Reviews string  `json:"reviews"`

	Highlight  string   `json:"highlight"`
	LaunchDate string   `json:"launchDate"`
	Retailer   Retailer `json:"retailer"`

	Specs         Specs         `json:"specs"`
	DetailedSpecs DetailedSpecs `json:"detailedSpecs"`

	// PriceComparison is never empty.
	PriceComparison []PriceOffer `json:"priceComparison"`

	// ExpertData is nil when upstream has no expert reviews.
	ExpertData *ExpertData `json:"expertData,omitempty"`
}

// Retailer is the primary seller shown on product cards.
type Retailer struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Specs is the flat bag of short display strings used on cards.
type Specs struct {
	Antutu    string `json:"antutu"`
	RAM       string `json:"ram"`
	Zoom      string `json:"zoom"`
	Processor string `json:"processor"`
	Display   string `json:"display"`
	Camera    string `json:"camera"`
	Battery   string `json:"battery"`
	Storage   string `json:"storage"`
}

// DetailedSpecs groups display strings for the detail and compare views.
type DetailedSpecs struct {
	Processor  ProcessorSpecs  `json:"processor"`
	Display    DisplaySpecs    `json:"display"`
	Battery    BatterySpecs    `json:"battery"`
	Camera     CameraSpecs     `json:"camera"`
	RAMStorage RAMStorageSpecs `json:"ramStorage"`
	Design     DesignSpecs     `json:"design"`
	OS         OSSpecs         `json:"os"`
}

// ProcessorSpecs describes the SoC.
type ProcessorSpecs struct {
	Chipset string `json:"chipset"`
	CPU     string `json:"cpu"`
}

// DisplaySpecs describes the screen.
type DisplaySpecs struct {
	Size       string `json:"size"`
	Resolution string `json:"resolution"`
	HDR        string `json:"hdr"`
}

// BatterySpecs describes capacity and charging.
type BatterySpecs struct {
	Capacity     string `json:"capacity"`
	Charging     string `json:"charging"`
	ChargerInBox string `json:"chargerInBox"`
}

// CameraSpecs groups rear and front camera descriptions.
type CameraSpecs struct {
	Rear  RearCamera  `json:"rear"`
	Front FrontCamera `json:"front"`
}

// RearCamera describes the rear camera module.
type RearCamera struct {
	Main      string `json:"main"`
	UltraWide string `json:"ultraWide"`
	Video     string `json:"video"`
}

// FrontCamera describes the selfie camera.
type FrontCamera struct {
	Sensor   string `json:"sensor"`
	Aperture string `json:"aperture"`
}

// RAMStorageSpecs describes memory configuration.
type RAMStorageSpecs struct {
	RAM     string `json:"ram"`
	Storage string `json:"storage"`
	Type    string `json:"type"`
}

// DesignSpecs describes build materials and ingress protection.
type DesignSpecs struct {
	FrontProtection string `json:"frontProtection"`
	BackMaterial    string `json:"backMaterial"`
	IPRating        string `json:"ipRating"`
}

// OSSpecs describes software.
type OSSpecs struct {
	Version string `json:"version"`
	Updates string `json:"updates"`
}

// PriceOffer is one row of the retailer price comparison.
type PriceOffer struct {
	Retailer     string `json:"retailer"`
	Price        int64  `json:"price"`
	Logo         string `json:"logo"`
	Availability string `json:"availability"`
	URL          string `json:"url"`
}

// ExpertData summarizes third-party expert reviews on a 0-5 scale.
type ExpertData struct {
	AverageScore float64        `json:"averageScore"`
	Count        int            `json:"count"`
	Sources      []ExpertSource `json:"sources"`
}

// ExpertSource is a single publication's review score.
type ExpertSource struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	OriginalScore float64 `json:"originalScore"`
	URL           string  `json:"url"`
}
