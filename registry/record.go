// Package registry holds the persisted bucket registry: the record model,
// the merge of freshly fetched descriptors, and the JSON file store.
package registry

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the on-disk format of createdOn.
const DateLayout = "2006-01-02"

// Date is a calendar date serialised as YYYY-MM-DD.
// A missing or unparseable value decodes to the zero Date.
type Date struct {
	time.Time
}

// NewDate keeps the calendar date of t as seen in t's location and stores it
// as midnight UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the date as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Date-times are accepted and
// truncated to their date.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil || s == nil {
		*d = Date{}
		return nil
	}
	raw := strings.TrimSpace(*s)
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	*d = Date{}
	return nil
}

// AgeDays returns the number of whole days between the date (midnight in
// now's location) and now. The zero Date has age 0.
func (d Date) AgeDays(now time.Time) int {
	if d.IsZero() {
		return 0
	}
	y, m, day := d.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return int(now.Sub(start) / (24 * time.Hour))
}

// Record is one bucket in the registry.
type Record struct {
	Name       string            `json:"name"`
	Region     string            `json:"region"`
	CreatedOn  Date              `json:"createdOn"`
	Tags       map[string]string `json:"tags"`
	Policies   []string          `json:"policies"`
	Versioning bool              `json:"versioning"`
	SizeGB     float64           `json:"sizeGB"`
}

// normalize replaces nil collections so they serialise as {} and [].
func (r *Record) normalize() {
	if r.Tags == nil {
		r.Tags = map[string]string{}
	}
	if r.Policies == nil {
		r.Policies = []string{}
	}
}

// Registry is the document stored in the registry file.
type Registry struct {
	Buckets []Record `json:"buckets"`
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{Buckets: []Record{}}
}

// Find returns the index of the record named name, or -1.
func (r *Registry) Find(name string) int {
	for i := range r.Buckets {
		if r.Buckets[i].Name == name {
			return i
		}
	}
	return -1
}

// Names returns the record names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.Buckets))
	for i, b := range r.Buckets {
		names[i] = b.Name
	}
	return names
}
