// Package compare lays products out side by side in the fixed category
// order the storefront comparison view uses.
package compare

import (
	"strconv"

	"github.com/donaldgifford/device-compare/pkg/normalize"
	domain "github.com/donaldgifford/device-compare/pkg/types"
)

// Column heads one product in the table.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price string `json:"price"`
}

// Row is one labelled attribute with a value per column. Differs is true
// when at least two columns disagree.
type Row struct {
	Label   string   `json:"label"`
	Values  []string `json:"values"`
	Differs bool     `json:"differs"`
}

// Category groups related rows under a heading.
type Category struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Table is the full comparison grid.
type Table struct {
	Columns    []Column   `json:"columns"`
	Categories []Category `json:"categories"`
}

type field struct {
	label string
	value func(p *domain.Product) string
}

type section struct {
	title  string
	fields []field
}

var layout = []section{
	{"Price & Availability", []field{
		{"Current Price", func(p *domain.Product) string { return normalize.FormatINR(p.Price) }},
		{"Launch Date", func(p *domain.Product) string { return p.LaunchDate }},
		{"Best Deal", func(p *domain.Product) string { return p.Retailer.Name }},
		{"Beebom Score", func(p *domain.Product) string { return strconv.Itoa(p.BeebomScore) }},
		{"User Rating", func(p *domain.Product) string { return strconv.FormatFloat(p.Rating, 'f', -1, 64) + "/5" }},
	}},
	{"Display", []field{
		{"Size & Type", func(p *domain.Product) string { return p.DetailedSpecs.Display.Size }},
		{"Resolution", func(p *domain.Product) string { return p.DetailedSpecs.Display.Resolution }},
		{"HDR Support", func(p *domain.Product) string { return p.DetailedSpecs.Display.HDR }},
	}},
	{"Performance", []field{
		{"Processor", func(p *domain.Product) string { return p.DetailedSpecs.Processor.Chipset }},
		{"CPU", func(p *domain.Product) string { return p.DetailedSpecs.Processor.CPU }},
		{"Antutu Score", func(p *domain.Product) string { return p.Specs.Antutu }},
	}},
	{"Memory", []field{
		{"RAM", func(p *domain.Product) string { return p.DetailedSpecs.RAMStorage.RAM }},
		{"Storage", func(p *domain.Product) string { return p.DetailedSpecs.RAMStorage.Storage }},
		{"Type", func(p *domain.Product) string { return p.DetailedSpecs.RAMStorage.Type }},
	}},
	{"Camera", []field{
		{"Main Camera", func(p *domain.Product) string { return p.DetailedSpecs.Camera.Rear.Main }},
		{"Ultra Wide", func(p *domain.Product) string { return p.DetailedSpecs.Camera.Rear.UltraWide }},
		{"Front Camera", func(p *domain.Product) string { return p.DetailedSpecs.Camera.Front.Sensor }},
		{"Video Recording", func(p *domain.Product) string { return p.DetailedSpecs.Camera.Rear.Video }},
		{"Zoom Capability", func(p *domain.Product) string { return p.Specs.Zoom }},
	}},
	{"Battery", []field{
		{"Capacity", func(p *domain.Product) string { return p.DetailedSpecs.Battery.Capacity }},
		{"Charging Speed", func(p *domain.Product) string { return p.DetailedSpecs.Battery.Charging }},
		{"Charger in Box", func(p *domain.Product) string { return p.DetailedSpecs.Battery.ChargerInBox }},
	}},
	{"Design & Build", []field{
		{"Front Protection", func(p *domain.Product) string { return p.DetailedSpecs.Design.FrontProtection }},
		{"Back Material", func(p *domain.Product) string { return p.DetailedSpecs.Design.BackMaterial }},
		{"IP Rating", func(p *domain.Product) string { return p.DetailedSpecs.Design.IPRating }},
	}},
	{"Software", []field{
		{"Operating System", func(p *domain.Product) string { return p.DetailedSpecs.OS.Version }},
		{"OS Updates", func(p *domain.Product) string { return p.DetailedSpecs.OS.Updates }},
	}},
}

// Build lays products out column by column in input order. An empty input
// still yields every category, each row with no values.
func Build(products []domain.Product) Table {
	t := Table{
		Columns:    make([]Column, 0, len(products)),
		Categories: make([]Category, 0, len(layout)),
	}

	for i := range products {
		p := &products[i]
		t.Columns = append(t.Columns, Column{
			ID:    p.ID,
			Name:  p.Name,
			Image: p.Image,
			Price: normalize.FormatINR(p.Price),
		})
	}

	for _, sec := range layout {
		cat := Category{Title: sec.title, Rows: make([]Row, 0, len(sec.fields))}
		for _, f := range sec.fields {
			row := Row{Label: f.label, Values: make([]string, 0, len(products))}
			for i := range products {
				row.Values = append(row.Values, f.value(&products[i]))
			}
			row.Differs = differs(row.Values)
			cat.Rows = append(cat.Rows, row)
		}
		t.Categories = append(t.Categories, cat)
	}

	return t
}

func differs(values []string) bool {
	for _, v := range values[min(1, len(values)):] {
		if v != values[0] {
			return true
		}
	}
	return false
}
