package imagesearch

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Analysis summarizes the coarse visual attributes extracted from an
// uploaded image. It is heuristic by design; the goal is filter hints, not
// vision-grade understanding.
type Analysis struct {
	DominantColors []string `json:"dominant_colors"`
	AverageColor   [3]int   `json:"average_color"`
	Brightness     float64  `json:"brightness"`
	AspectRatio    float64  `json:"aspect_ratio"`
	Notes          []string `json:"notes"`
}

type rgb struct{ r, g, b int }

var basicColors = map[string]rgb{
	"black":  {0, 0, 0},
	"gray":   {127, 127, 127},
	"white":  {255, 255, 255},
	"red":    {220, 20, 60},
	"orange": {255, 140, 0},
	"yellow": {255, 215, 0},
	"green":  {46, 139, 87},
	"teal":   {0, 128, 128},
	"blue":   {30, 144, 255},
	"navy":   {0, 0, 128},
	"purple": {138, 43, 226},
	"pink":   {255, 105, 180},
	"brown":  {139, 69, 19},
}

func nearestColor(c rgb) string {
	best := ""
	bestDist := math.Inf(1)
	for name, value := range basicColors {
		d := float64((c.r-value.r)*(c.r-value.r) + (c.g-value.g)*(c.g-value.g) + (c.b-value.b)*(c.b-value.b))
		if d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}

// sampleGrid is the per-axis sample count; 48x48 keeps analysis O(1)
// regardless of upload size.
const sampleGrid = 48

// Analyze decodes a base64 image and extracts dominant colors, brightness,
// and aspect-ratio notes. Undecodable input returns an error so callers can
// degrade to text-only matching.
func Analyze(imageB64 string) (*Analysis, error) {
	raw, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}

	var sumR, sumG, sumB int
	var lumaSum float64
	votes := make(map[string]int)
	samples := 0

	for sy := 0; sy < sampleGrid; sy++ {
		for sx := 0; sx < sampleGrid; sx++ {
			x := bounds.Min.X + sx*width/sampleGrid
			y := bounds.Min.Y + sy*height/sampleGrid
			r16, g16, b16, _ := img.At(x, y).RGBA()
			px := rgb{int(r16 >> 8), int(g16 >> 8), int(b16 >> 8)}

			sumR += px.r
			sumG += px.g
			sumB += px.b
			lumaSum += 0.2126*float64(px.r) + 0.7152*float64(px.g) + 0.0722*float64(px.b)
			votes[nearestColor(px)]++
			samples++
		}
	}

	dominant := topColors(votes, 3)
	brightness := lumaSum / (255 * float64(samples))
	aspect := math.Round(float64(width)/float64(height)*1000) / 1000

	var notes []string
	if brightness < 0.35 {
		notes = append(notes, "mostly_dark")
	} else if brightness > 0.65 {
		notes = append(notes, "mostly_light")
	}
	if aspect > 1.3 {
		notes = append(notes, "wider_than_tall")
	} else if aspect < 0.75 {
		notes = append(notes, "taller_than_wide")
	}

	return &Analysis{
		DominantColors: dominant,
		AverageColor:   [3]int{sumR / samples, sumG / samples, sumB / samples},
		Brightness:     brightness,
		AspectRatio:    aspect,
		Notes:          notes,
	}, nil
}

func topColors(votes map[string]int, n int) []string {
	type vote struct {
		name  string
		count int
	}
	ranked := make([]vote, 0, len(votes))
	for name, count := range votes {
		ranked = append(ranked, vote{name, count})
	}
	// Ties break alphabetically so the result is stable across runs.
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].count > ranked[i].count ||
				(ranked[j].count == ranked[i].count && ranked[j].name < ranked[i].name) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, v := range ranked[:n] {
		out = append(out, v.name)
	}
	return out
}

// ColorHints maps dominant colors onto catalog color filter values,
// deduplicated in dominance order.
func ColorHints(a *Analysis) []string {
	if a == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ordered []string
	for _, color := range a.DominantColors {
		if _, known := basicColors[color]; !known || seen[color] {
			continue
		}
		ordered = append(ordered, color)
		seen[color] = true
	}
	return ordered
}

func (a *Analysis) hasNote(note string) bool {
	if a == nil {
		return false
	}
	for _, n := range a.Notes {
		if n == note {
			return true
		}
	}
	return false
}
