package upstream

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/donaldgifford/device-compare/pkg/extract"
	"github.com/donaldgifford/device-compare/pkg/normalize"
	score "github.com/donaldgifford/device-compare/pkg/scorer"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// ErrMissingIdentity is returned when a record has no ID. It is the only
// condition under which adaptation fails.
var ErrMissingIdentity = errors.New("upstream record has no id")

// Placeholder values for leaves upstream did not report.
const (
	ReferManufacturer = "Refer manufacturer"
	Included          = "Included"
	Standard          = "Standard"
	DefaultCPU        = "Octa-core"
	DefaultOS         = "Android"
	DefaultUpdates    = "Standard support"
	DaysAgoRecently   = "Recently"
	NoReviews         = "No reviews yet"
)

// Synthesized price entries.
const (
	MarketPrice       = "Market Price"
	MarketEstimate    = "Market Estimate"
	BestDeal          = "Best Deal"
	InStock           = "In Stock"
	CheckLocal        = "Check Local"
	CheckAvailability = "Check Availability"
	compareCategory   = "Smartphone"
)

// maxPrice bounds upstream prices before conversion to int64.
const maxPrice = 1e12

// ToProducts adapts catalog records in order. The output has the same length
// as the input.
func ToProducts(recs []CatalogRecord) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(recs))
	for i := range recs {
		p, err := ToProduct(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// ToProduct adapts one catalog record into the storefront product.
func ToProduct(rec *CatalogRecord) (domain.Product, error) {
	if rec == nil || strings.TrimSpace(rec.ID) == "" {
		return domain.Product{}, ErrMissingIdentity
	}

	ss := rec.SearchSpecs
	specs := rec.Specs
	price := resolvePrice(ss.PriceINR, ss.PriceEstimateEUR)

	camera := extract.PrimaryCamera(specs)
	chipset := firstNonEmpty(strings.TrimSpace(ss.Chipset), specs.Text(extract.SectionPlatform, extract.KeyChipset), extract.NotAvailable)
	ram := gigabytes(ss.RAMGB)
	storage := gigabytes(ss.StorageGB)
	battery := num(ss.BatteryMAh) + "mAh"

	capacity := battery
	if t := specs.Text(extract.SectionBattery, extract.KeyType); t != "" {
		capacity += " " + t
	}

	expert := ProcessExpertView(rec.ExpertView)
	rating, reviews := 0.0, NoReviews
	if expert != nil {
		rating = expert.AverageScore
		reviews = expertReviews(expert.Count)
	}

	return assemble(parts{
		id:         rec.ID,
		name:       firstNonEmpty(strings.TrimSpace(rec.ModelName), strings.TrimSpace(rec.Brand), rec.ID),
		category:   categoryLabel(rec.Brand, rec.Category),
		image:      rec.Image,
		price:      price,
		techScore:  rec.TechScore,
		rating:     rating,
		reviews:    reviews,
		launchDate: year(ss.ReleaseYear),
		specs: domain.Specs{
			Antutu:    extract.Benchmark(specs),
			RAM:       ram,
			Zoom:      extract.Zoom(specs),
			Processor: chipset,
			Display:   fmt.Sprintf("%s\" %sHz", num(ss.ScreenSizeInch), num(ss.RefreshRateHz)),
			Camera:    camera,
			Battery:   battery,
			Storage:   storage,
		},
		detailed: domain.DetailedSpecs{
			Processor: domain.ProcessorSpecs{
				Chipset: chipset,
				CPU:     specs.TextOr(extract.SectionPlatform, extract.KeyCPU, DefaultCPU),
			},
			Display: domain.DisplaySpecs{
				Size:       num(ss.ScreenSizeInch) + `"`,
				Resolution: specs.TextOr(extract.SectionDisplay, extract.KeyResolution, extract.NotAvailable),
				HDR:        specs.TextOr(extract.SectionDisplay, extract.KeyType, extract.NotAvailable),
			},
			Battery: domain.BatterySpecs{
				Capacity:     capacity,
				Charging:     specs.TextOr(extract.SectionBattery, extract.KeyCharging, extract.NotAvailable),
				ChargerInBox: "",
			},
			Camera: domain.CameraSpecs{
				Rear: domain.RearCamera{
					Main:      camera,
					UltraWide: extract.UltraWide(camera),
					Video:     specs.TextOr(extract.SectionMainCamera, extract.KeyVideo, extract.NotAvailable),
				},
				Front: domain.FrontCamera{
					Sensor:   extract.SelfieSensor(specs),
					Aperture: extract.SelfieAperture(specs),
				},
			},
			RAMStorage: domain.RAMStorageSpecs{
				RAM:     ram,
				Storage: storage,
				Type:    extract.StorageType(specs),
			},
			Design: domain.DesignSpecs{
				FrontProtection: specs.TextOr(extract.SectionDisplay, extract.KeyProtection, extract.NotAvailable),
				BackMaterial:    specs.TextOr(extract.SectionBody, extract.KeyBuild, extract.NotAvailable),
				IPRating:        extract.IPRating(specs),
			},
			OS: domain.OSSpecs{
				Version: specs.TextOr(extract.SectionPlatform, extract.KeyOS, DefaultOS),
				Updates: DefaultUpdates,
			},
		},
		offers: retailerOffers(rec, price),
		expert: expert,
	}), nil
}

// CompareToProducts adapts compare records in order.
func CompareToProducts(recs []CompareRecord) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(recs))
	for i := range recs {
		p, err := CompareToProduct(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// CompareToProduct adapts one compare record. The compare shape carries no
// free-form specs or retailer links, so leaves come straight from the
// pre-formatted display text.
func CompareToProduct(rec *CompareRecord) (domain.Product, error) {
	if rec == nil || strings.TrimSpace(rec.ID) == "" {
		return domain.Product{}, ErrMissingIdentity
	}

	cv := rec.ComparisonValues
	dt := rec.DisplayText
	price := resolvePrice(rec.PriceINR)

	// A zero expert score reads as "not yet rated", so the user score stands in.
	rating := normalize.ToFiveStars(rec.Ratings.UserScore)
	if es := rec.Ratings.ExpertScore; es.Valid && es.Value > 0 {
		rating = normalize.ToFiveStars(es.Value)
	}

	ram := gigabytes(cv.RAM)
	storage := gigabytes(cv.Storage)
	processor := firstNonEmpty(strings.TrimSpace(dt.Processor), ReferManufacturer)
	camera := firstNonEmpty(strings.TrimSpace(dt.Camera), ReferManufacturer)
	battery := firstNonEmpty(strings.TrimSpace(dt.Battery), num(cv.Battery)+"mAh")

	mainCamera, _, _ := strings.Cut(dt.Camera, ",")
	mainCamera = firstNonEmpty(strings.TrimSpace(mainCamera), ReferManufacturer)

	return assemble(parts{
		id:         rec.ID,
		name:       firstNonEmpty(strings.TrimSpace(rec.Model), rec.ID),
		category:   compareCategory,
		image:      rec.Image,
		price:      price,
		techScore:  rec.TechScore,
		rating:     rating,
		reviews:    fmt.Sprintf("%d Ratings", rec.Ratings.UserVotes),
		launchDate: year(cv.Year),
		specs: domain.Specs{
			Antutu:    ReferManufacturer,
			RAM:       ram,
			Zoom:      ReferManufacturer,
			Processor: processor,
			Display:   fmt.Sprintf("%s\" %sHz", num(cv.ScreenSize), num(cv.RefreshRate)),
			Camera:    camera,
			Battery:   battery,
			Storage:   storage,
		},
		detailed: domain.DetailedSpecs{
			Processor: domain.ProcessorSpecs{Chipset: processor, CPU: ReferManufacturer},
			Display: domain.DisplaySpecs{
				Size:       num(cv.ScreenSize) + `"`,
				Resolution: firstNonEmpty(strings.TrimSpace(dt.Display), ReferManufacturer),
				HDR:        Standard,
			},
			Battery: domain.BatterySpecs{
				Capacity:     battery,
				Charging:     ReferManufacturer,
				ChargerInBox: ReferManufacturer,
			},
			Camera: domain.CameraSpecs{
				Rear:  domain.RearCamera{Main: mainCamera, UltraWide: Included, Video: ReferManufacturer},
				Front: domain.FrontCamera{Sensor: Included, Aperture: ReferManufacturer},
			},
			RAMStorage: domain.RAMStorageSpecs{RAM: ram, Storage: storage, Type: Standard},
			Design: domain.DesignSpecs{
				FrontProtection: ReferManufacturer,
				BackMaterial:    ReferManufacturer,
				IPRating:        Standard,
			},
			OS: domain.OSSpecs{Version: ReferManufacturer, Updates: Standard},
		},
		offers: []domain.PriceOffer{{
			Retailer:     MarketEstimate,
			Price:        price,
			Logo:         FallbackLogo,
			Availability: CheckAvailability,
			URL:          "#",
		}},
		retailer: &domain.Retailer{Name: BestDeal, Logo: FallbackLogo},
	}), nil
}

// parts is what each record shape contributes; assemble derives the rest.
type parts struct {
	id, name, category, image string
	price                     int64
	techScore                 float64
	rating                    float64
	reviews                   string
	launchDate                string
	specs                     domain.Specs
	detailed                  domain.DetailedSpecs
	offers                    []domain.PriceOffer
	expert                    *domain.ExpertData
	retailer                  *domain.Retailer
}

func assemble(p parts) domain.Product {
	offers := p.offers
	if len(offers) == 0 {
		offers = []domain.PriceOffer{marketPriceOffer(p.price, "")}
	}

	retailer := domain.Retailer{Name: offers[0].Retailer, Logo: offers[0].Logo}
	if p.retailer != nil {
		retailer = *p.retailer
	}

	return domain.Product{
		ID:              p.id,
		Name:            p.name,
		Category:        p.category,
		Image:           p.image,
		Price:           p.price,
		OldPrice:        score.OldPrice(p.price),
		DaysAgo:         DaysAgoRecently,
		BeebomScore:     score.BeebomScore(p.techScore),
		Rating:          normalize.ClampStars(p.rating),
		Reviews:         p.reviews,
		Highlight:       score.Highlight(p.techScore),
		LaunchDate:      p.launchDate,
		Retailer:        retailer,
		Specs:           p.specs,
		DetailedSpecs:   p.detailed,
		PriceComparison: offers,
		ExpertData:      p.expert,
	}
}

// retailerOffers lists partner retailers with a non-empty affiliate link,
// in partner order, falling back to a single market price entry.
func retailerOffers(rec *CatalogRecord, price int64) []domain.PriceOffer {
	var offers []domain.PriceOffer
	for _, r := range knownRetailers {
		link := strings.TrimSpace(rec.AffiliateLinks[r.Key])
		if link == "" {
			continue
		}
		offers = append(offers, domain.PriceOffer{
			Retailer:     r.Name,
			Price:        price,
			Logo:         r.Logo,
			Availability: InStock,
			URL:          link,
		})
	}
	if len(offers) == 0 {
		offers = append(offers, marketPriceOffer(price, rec.URL))
	}
	return offers
}

func marketPriceOffer(price int64, url string) domain.PriceOffer {
	return domain.PriceOffer{
		Retailer:     MarketPrice,
		Price:        price,
		Logo:         FallbackLogo,
		Availability: CheckLocal,
		URL:          firstNonEmpty(strings.TrimSpace(url), "#"),
	}
}

// resolvePrice returns the first usable candidate rounded to an integer.
// Missing, non-finite, non-positive and absurd values are skipped.
func resolvePrice(candidates ...*float64) int64 {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		v := *c
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > maxPrice {
			continue
		}
		return int64(math.Round(v))
	}
	return 0
}

func categoryLabel(brand, category string) string {
	noun := "Phones"
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryTablet:
		noun = "Tablets"
	case CategoryWatch:
		noun = "Watches"
	}
	return strings.TrimSpace(strings.TrimSpace(brand) + " " + noun)
}

func year(y float64) string {
	if y <= 0 || math.IsNaN(y) || math.IsInf(y, 0) {
		return extract.NotAvailable
	}
	return num(math.Trunc(y))
}

func gigabytes(v float64) string {
	return num(v) + "GB"
}

// num formats without trailing zeros: 6.7, 8, 120.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
