package extract_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-compare/pkg/extract"
)

func decode(t *testing.T, raw string) extract.Specs {
	t.Helper()

	var s extract.Specs
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func TestSpecs_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		section string
		key     string
		want    string
	}{
		{name: "string leaf trimmed", raw: `{"platform":{"os":"  Android 14 "}}`, section: "platform", key: "os", want: "Android 14"},
		{name: "number leaf", raw: `{"battery":{"charging":45}}`, section: "battery", key: "charging", want: "45"},
		{name: "fractional number", raw: `{"display":{"size":6.7}}`, section: "display", key: "size", want: "6.7"},
		{name: "bool leaf", raw: `{"body":{"esim":true}}`, section: "body", key: "esim", want: "Yes"},
		{name: "array leaf", raw: `{"main_camera":{"features":["LED flash","HDR"]}}`, section: "main_camera", key: "features", want: "LED flash, HDR"},
		{name: "object leaf dropped", raw: `{"body":{"build":{"front":"glass"}}}`, section: "body", key: "build", want: ""},
		{name: "null leaf dropped", raw: `{"body":{"build":null}}`, section: "body", key: "build", want: ""},
		{name: "keys lower-cased", raw: `{"Platform":{"OS":"iOS 17"}}`, section: "platform", key: "os", want: "iOS 17"},
		{name: "section not an object", raw: `{"platform":"Android"}`, section: "platform", key: "os", want: ""},
		{name: "document not an object", raw: `"n/a"`, section: "platform", key: "os", want: ""},
		{name: "array document", raw: `[1,2]`, section: "platform", key: "os", want: ""},
		{name: "null document", raw: `null`, section: "platform", key: "os", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, decode(t, tt.raw).Text(tt.section, tt.key))
		})
	}
}

func TestSpecs_MalformedDoesNotFailRecord(t *testing.T) {
	t.Parallel()

	var rec struct {
		ID    string        `json:"_id"`
		Specs extract.Specs `json:"specs"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","specs":42}`), &rec))
	assert.Equal(t, "p1", rec.ID)
	assert.Nil(t, rec.Specs)
}

func TestSpecs_CaseCollisionsAreDeterministic(t *testing.T) {
	t.Parallel()

	raw := `{"Body":{"build":"Plastic","Other":"IP54"},"body":{"build":"Glass IP68","OTHER":"IP53"},"BODY":{"sim":"Dual"}}`
	for range 50 {
		s := decode(t, raw)
		assert.Equal(t, "Glass IP68", s.Text("body", "build"))
		assert.Equal(t, "IP53", s.Text("body", "other"))
		assert.Equal(t, "Dual", s.Text("body", "sim"))
		assert.Len(t, s, 1)
	}
}

func TestSpecs_TextOr(t *testing.T) {
	t.Parallel()

	s := decode(t, `{"platform":{"cpu":"Octa-core (1x3.3 GHz)"}}`)
	assert.Equal(t, "Octa-core (1x3.3 GHz)", s.TextOr("platform", "cpu", "Octa-core"))
	assert.Equal(t, "Android", s.TextOr("platform", "os", "Android"))

	var nilSpecs extract.Specs
	assert.Equal(t, "N/A", nilSpecs.TextOr("platform", "os", "N/A"))
	assert.Empty(t, nilSpecs.First("main_camera", "triple", "dual"))
}

func TestBenchmark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "with colon", raw: `{"tests":{"performance":"AnTuTu: 1520523 (v10)"}}`, want: "1520523"},
		{name: "without colon", raw: `{"tests":{"performance":"antutu 987654"}}`, want: "987654"},
		{name: "among other scores", raw: `{"tests":{"performance":"GeekBench: 5400 (v6), AnTuTu: 812345 (v9)"}}`, want: "812345"},
		{name: "no antutu", raw: `{"tests":{"performance":"GeekBench: 5400"}}`, want: extract.NotAvailable},
		{name: "label without digits", raw: `{"tests":{"performance":"AnTuTu: pending"}}`, want: extract.NotAvailable},
		{name: "missing section", raw: `{}`, want: extract.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.Benchmark(decode(t, tt.raw)))
		})
	}
}

func TestIPRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "in build", raw: `{"body":{"build":"Glass front, IP68 dust/water resistant"}}`, want: "IP68"},
		{name: "letter suffix", raw: `{"body":{"build":"rated IP69K"}}`, want: "IP69K"},
		{name: "x digit", raw: `{"body":{"build":"IPX8 water resistant"}}`, want: "IPX8"},
		{name: "dust only", raw: `{"body":{"build":"IP6X dust tight"}}`, want: "IP6X"},
		{name: "lower case", raw: `{"body":{"build":"ip68 rated"}}`, want: "IP68"},
		{name: "inside a word", raw: `{"body":{"build":"flagship68 edition"}}`, want: extract.NoIPRating},
		{name: "falls back to other", raw: `{"body":{"build":"Glass front","other":"IP54 splash"}}`, want: "IP54"},
		{name: "none", raw: `{"body":{"build":"Plastic back"}}`, want: extract.NoIPRating},
		{name: "absent", raw: `{}`, want: extract.NoIPRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.IPRating(decode(t, tt.raw)))
		})
	}
}

func TestPrimaryCamera(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "triple wins over dual", raw: `{"main_camera":{"triple":"50 MP wide","dual":"12 MP"}}`, want: "50 MP wide"},
		{name: "dual", raw: `{"main_camera":{"dual":"48 MP, 12 MP ultrawide"}}`, want: "48 MP, 12 MP ultrawide"},
		{name: "single", raw: `{"main_camera":{"single":"12 MP"}}`, want: "12 MP"},
		{name: "blank triple skipped", raw: `{"main_camera":{"triple":"  ","dual":"12 MP"}}`, want: "12 MP"},
		{name: "none", raw: `{"main_camera":{"video":"4K"}}`, want: extract.CameraUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.PrimaryCamera(decode(t, tt.raw)))
		})
	}
}

func TestZoom(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3x optical", extract.Zoom(decode(t, `{"main_camera":{"triple":"10 MP telephoto, 3x optical zoom"}}`)))
	assert.Equal(t, "2.5x optical", extract.Zoom(decode(t, `{"main_camera":{"features":"2.5x optical zoom"}}`)))
	assert.Equal(t, extract.NotAvailable, extract.Zoom(decode(t, `{"main_camera":{"triple":"10x digital zoom"}}`)))
	assert.Equal(t, extract.NotAvailable, extract.Zoom(nil))
}

func TestSelfie(t *testing.T) {
	t.Parallel()

	s := decode(t, `{"selfie_camera":{"single":"12 MP, f/2.2, (wide)"}}`)
	assert.Equal(t, "f/2.2", extract.SelfieAperture(s))
	assert.Equal(t, "12 MP, f/2.2, (wide)", extract.SelfieSensor(s))

	dual := decode(t, `{"selfie_camera":{"dual":"32 MP, f/2"}}`)
	assert.Equal(t, "f/2", extract.SelfieAperture(dual))

	empty := decode(t, `{}`)
	assert.Equal(t, extract.NotAvailable, extract.SelfieAperture(empty))
	assert.Equal(t, extract.NotAvailable, extract.SelfieSensor(empty))
}

func TestUltraWide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{text: "50 MP wide, 12 MP ultrawide", want: "Yes"},
		{text: "12 MP, f/2.2, 120˚ (ultra-wide)", want: "Yes"},
		{text: "48 MP Ultra Wide", want: "Yes"},
		{text: "50 MP wide, 2 MP depth", want: "No"},
		{text: "", want: extract.NotAvailable},
		{text: extract.CameraUnavailable, want: extract.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.UltraWide(tt.text))
		})
	}
}

func TestStorageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "ufs with version", raw: `{"memory":{"internal":"256GB 8GB RAM, UFS 4.0"}}`, want: "UFS 4.0"},
		{name: "nvme", raw: `{"memory":{"internal":"128GB NVMe"}}`, want: "NVMe"},
		{name: "emmc", raw: `{"memory":{"internal":"64GB 4GB RAM, eMMC 5.1"}}`, want: "eMMC 5.1"},
		{name: "none", raw: `{"memory":{"internal":"128GB 6GB RAM"}}`, want: extract.NotAvailable},
		{name: "absent", raw: `{}`, want: extract.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.StorageType(decode(t, tt.raw)))
		})
	}
}

func TestExtractors_NeverEmpty(t *testing.T) {
	t.Parallel()

	docs := []string{`{}`, `null`, `{"tests":7}`, `{"main_camera":{"triple":""}}`}
	for _, raw := range docs {
		s := decode(t, raw)
		for name, got := range map[string]string{
			"benchmark": extract.Benchmark(s),
			"ip":        extract.IPRating(s),
			"camera":    extract.PrimaryCamera(s),
			"zoom":      extract.Zoom(s),
			"aperture":  extract.SelfieAperture(s),
			"storage":   extract.StorageType(s),
		} {
			assert.NotEmpty(t, got, "%s for %s", name, raw)
		}
	}
}
