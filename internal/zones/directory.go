package zones

// UnassignedPolicy controls what ingestion does with a report from a device
// that no zone claims.
type UnassignedPolicy string

const (
	// PolicyLogOnly skips the merge but still logs the report.
	PolicyLogOnly UnassignedPolicy = "log-only"
	// PolicyAutoZone merges the report into a zone named after the device.
	PolicyAutoZone UnassignedPolicy = "auto-zone"
	// PolicyReject refuses the report outright.
	PolicyReject UnassignedPolicy = "reject"
)

// Valid reports whether p is a known policy value.
func (p UnassignedPolicy) Valid() bool {
	switch p {
	case PolicyLogOnly, PolicyAutoZone, PolicyReject:
		return true
	}
	return false
}

// Directory resolves device identifiers to zone names. It is built once at
// startup and read-only thereafter, so it needs no locking.
type Directory struct {
	byDevice map[string]string
	zones    []string
}

// Membership is one zone's configured device list, in file order.
type Membership struct {
	Zone    string
	Devices []string
}

// NewDirectory builds a Directory from ordered zone memberships. If a device
// appears under more than one zone, the first zone in configuration order
// wins.
func NewDirectory(memberships []Membership) *Directory {
	d := &Directory{byDevice: make(map[string]string)}
	for _, m := range memberships {
		d.zones = append(d.zones, m.Zone)
		for _, dev := range m.Devices {
			if _, taken := d.byDevice[dev]; taken {
				continue
			}
			d.byDevice[dev] = m.Zone
		}
	}
	return d
}

// ZoneFor returns the zone a device contributes to.
func (d *Directory) ZoneFor(deviceID string) (string, bool) {
	zone, ok := d.byDevice[deviceID]
	return zone, ok
}

// Zones returns the configured zone names in configuration order.
func (d *Directory) Zones() []string {
	out := make([]string, len(d.zones))
	copy(out, d.zones)
	return out
}
