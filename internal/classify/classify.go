package classify

import "sort"

// Band is one classification range. Lower is inclusive; the band extends to
// the next band's lower bound (exclusive), the last band is unbounded above.
type Band struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Label string  `yaml:"label" json:"label"`
}

// Classifier maps raw sensor values to discrete labels per field.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	bands map[string][]Band
}

// DefaultBands mirrors the stock loudness and brightness thresholds.
func DefaultBands() map[string][]Band {
	return map[string][]Band{
		"audio_peak": {
			{Lower: 0, Label: "Quiet"},
			{Lower: 50, Label: "Talking"},
			{Lower: 500, Label: "Loud"},
		},
		"light": {
			{Lower: 0, Label: "Dark"},
			{Lower: 50, Label: "Bright"},
			{Lower: 500, Label: "Very Bright"},
		},
	}
}

// New builds a Classifier from band tables. Bands are sorted by lower bound;
// fields with no bands are simply never classified.
func New(bands map[string][]Band) *Classifier {
	c := &Classifier{bands: make(map[string][]Band, len(bands))}
	for field, bs := range bands {
		if len(bs) == 0 {
			continue
		}
		sorted := make([]Band, len(bs))
		copy(sorted, bs)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lower < sorted[j].Lower })
		c.bands[field] = sorted
	}
	return c
}

// Classify returns the label for a raw value, or ok=false when the field has
// no band table or the value falls below the first band.
func (c *Classifier) Classify(field string, value float64) (string, bool) {
	bs, ok := c.bands[field]
	if !ok {
		return "", false
	}
	label := ""
	found := false
	for _, b := range bs {
		if value >= b.Lower {
			label = b.Label
			found = true
			continue
		}
		break
	}
	return label, found
}

// Annotate returns a copy of the sensor map with a "<field>_level" entry
// added for every field that classifies. Raw values are left untouched.
func (c *Classifier) Annotate(sensors map[string]float64) map[string]any {
	out := make(map[string]any, len(sensors)*2)
	for field, value := range sensors {
		out[field] = value
		if label, ok := c.Classify(field, value); ok {
			out[field+"_level"] = label
		}
	}
	return out
}
