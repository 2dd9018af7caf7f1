package extract

import (
	"regexp"
	"strings"
)

// Fallback literals. Views render every leaf unconditionally, so extractors
// never return "".
const (
	NotAvailable      = "N/A"
	NoIPRating        = "No official rating"
	CameraUnavailable = "Camera details unavailable"
)

var (
	benchmarkRe   = regexp.MustCompile(`(?i)antutu\s*:?\s*(\d+)`)
	ipRatingRe    = regexp.MustCompile(`(?i)\bIP[0-9X][0-9X][A-Z]?\b`)
	opticalZoomRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s+optical`)
	apertureRe    = regexp.MustCompile(`f/(\d+(?:\.\d+)?)`)
	storageTypeRe = regexp.MustCompile(`(?i)\b(UFS\s?\d\.\d|UFS|NVMe|eMMC\s?\d\.\d|eMMC)\b`)
	ultraWideRe   = regexp.MustCompile(`(?i)ultra[\s-]?wide`)
)

// Benchmark returns the AnTuTu score from the performance note.
func Benchmark(s Specs) string {
	m := benchmarkRe.FindStringSubmatch(s.Text(SectionTests, KeyPerformance))
	if len(m) < 2 {
		return NotAvailable
	}
	return m[1]
}

// IPRating returns the ingress protection code from the build notes.
func IPRating(s Specs) string {
	for _, key := range []string{KeyBuild, KeyOther} {
		if m := ipRatingRe.FindString(s.Text(SectionBody, key)); m != "" {
			return strings.ToUpper(m)
		}
	}
	return NoIPRating
}

// PrimaryCamera describes the rear camera module. Upstream files the
// description under a key named for the sensor count, so the richest
// configuration wins.
func PrimaryCamera(s Specs) string {
	if v := s.First(SectionMainCamera, KeyTriple, KeyDual, KeySingle); v != "" {
		return v
	}
	return CameraUnavailable
}

// Zoom returns the optical zoom factor, e.g. "3x optical".
func Zoom(s Specs) string {
	for _, key := range []string{KeyTriple, KeyDual, KeyFeatures} {
		if m := opticalZoomRe.FindStringSubmatch(s.Text(SectionMainCamera, key)); len(m) == 2 {
			return m[1] + "x optical"
		}
	}
	return NotAvailable
}

// SelfieSensor returns the front camera description.
func SelfieSensor(s Specs) string {
	if v := s.First(SectionSelfieCamera, KeySingle, KeyDual); v != "" {
		return v
	}
	return NotAvailable
}

// SelfieAperture returns the front camera aperture, e.g. "f/2.2".
func SelfieAperture(s Specs) string {
	m := apertureRe.FindString(s.First(SectionSelfieCamera, KeySingle, KeyDual))
	if m == "" {
		return NotAvailable
	}
	return m
}

// UltraWide reports whether the camera text mentions an ultra-wide lens.
// Without any camera text the answer is unknown rather than "No".
func UltraWide(cameraText string) string {
	if cameraText == "" || cameraText == CameraUnavailable {
		return NotAvailable
	}
	if ultraWideRe.MatchString(cameraText) {
		return "Yes"
	}
	return "No"
}

// StorageType returns the flash storage standard from the memory notes.
func StorageType(s Specs) string {
	m := storageTypeRe.FindString(s.Text(SectionMemory, KeyInternal))
	if m == "" {
		return NotAvailable
	}
	return strings.Join(strings.Fields(m), " ")
}
