package readings

import "time"

// FieldReading is the most recent accepted value for one sensor field in a
// zone, with its provenance.
type FieldReading struct {
	Value        float64   `json:"value"`
	UpdatedAt    time.Time `json:"updated_at"`
	SourceDevice string    `json:"source_device"`
}

// ZoneRecord is the merged view of every device contributing to a zone.
// Fields never reported since process start are absent, not zeroed.
type ZoneRecord struct {
	Fields      map[string]FieldReading `json:"fields"`
	LastUpdated time.Time               `json:"last_updated"`
}

// Values flattens the record into field -> raw value.
func (r ZoneRecord) Values() map[string]float64 {
	out := make(map[string]float64, len(r.Fields))
	for name, f := range r.Fields {
		out[name] = f.Value
	}
	return out
}

// DeviceReport is the latest raw report seen from one device.
type DeviceReport struct {
	Sensors    map[string]float64 `json:"sensors"`
	ReceivedAt time.Time          `json:"received_at"`
}
