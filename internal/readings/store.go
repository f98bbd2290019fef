package readings

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no data exists for a given zone.
	ErrNotFound = errors.New("no readings for zone")
)

// Store is the concurrency-safe aggregation table: one merged record per
// zone plus the latest raw report per device. It is the only shared mutable
// state on the hot path; all access goes through one RWMutex and no I/O
// happens under the lock.
type Store struct {
	mu sync.RWMutex

	zones   map[string]*ZoneRecord
	devices map[string]DeviceReport
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		zones:   make(map[string]*ZoneRecord),
		devices: make(map[string]DeviceReport),
	}
}

// Merge folds one report's fields into a zone record, creating the record if
// absent. A field is overwritten only when its stored timestamp is not newer
// than receivedAt, so a delayed report can never regress a field. All fields
// of one report are applied under a single lock acquisition.
func (s *Store) Merge(zone, device string, fields map[string]float64, receivedAt time.Time) {
	if len(fields) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.zones[zone]
	if !ok {
		rec = &ZoneRecord{Fields: make(map[string]FieldReading)}
		s.zones[zone] = rec
	}

	for name, value := range fields {
		if existing, ok := rec.Fields[name]; ok && existing.UpdatedAt.After(receivedAt) {
			// Stale write for this field; the rest of the report still applies.
			continue
		}
		rec.Fields[name] = FieldReading{
			Value:        value,
			UpdatedAt:    receivedAt,
			SourceDevice: device,
		}
	}

	rec.LastUpdated = time.Time{}
	for _, f := range rec.Fields {
		if f.UpdatedAt.After(rec.LastUpdated) {
			rec.LastUpdated = f.UpdatedAt
		}
	}
}

// RecordDevice remembers the latest raw report from a device, regardless of
// zone assignment.
func (s *Store) RecordDevice(device string, sensors map[string]float64, receivedAt time.Time) {
	copied := make(map[string]float64, len(sensors))
	for k, v := range sensors {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[device] = DeviceReport{Sensors: copied, ReceivedAt: receivedAt}
}

// Snapshot returns a point-in-time copy of one zone's record.
func (s *Store) Snapshot(zone string) (ZoneRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.zones[zone]
	if !ok {
		return ZoneRecord{}, ErrNotFound
	}
	return copyRecord(rec), nil
}

// SnapshotAll returns copies of every known zone record.
func (s *Store) SnapshotAll() map[string]ZoneRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ZoneRecord, len(s.zones))
	for zone, rec := range s.zones {
		out[zone] = copyRecord(rec)
	}
	return out
}

// LatestByDevice returns copies of the latest raw report per device.
func (s *Store) LatestByDevice() map[string]DeviceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]DeviceReport, len(s.devices))
	for device, rep := range s.devices {
		sensors := make(map[string]float64, len(rep.Sensors))
		for k, v := range rep.Sensors {
			sensors[k] = v
		}
		out[device] = DeviceReport{Sensors: sensors, ReceivedAt: rep.ReceivedAt}
	}
	return out
}

func copyRecord(rec *ZoneRecord) ZoneRecord {
	fields := make(map[string]FieldReading, len(rec.Fields))
	for name, f := range rec.Fields {
		fields[name] = f
	}
	return ZoneRecord{Fields: fields, LastUpdated: rec.LastUpdated}
}
