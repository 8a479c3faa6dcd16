// Package roster reconciles resolved entities against an authoritative
// master roster of employee IDs and names.
package roster

import (
	"slices"

	"github.com/agentstation/rollcall/pkg/names"
)

// Record is one row of the master roster.
type Record struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	form names.Components
}

// NewRecord builds a roster record and parses its name.
func NewRecord(id, name string) Record {
	return Record{ID: id, Name: name, form: names.Parse(name)}
}

// Key returns the comparison key of the record's name.
func (r Record) Key() string {
	return r.Form().Key()
}

// Display returns the normalized display form of the record's name.
func (r Record) Display() string {
	if d := r.Form().Display(); d != "" {
		return d
	}
	return r.Name
}

// Form returns the parsed record name.
func (r Record) Form() names.Components {
	if r.form.IsEmpty() && r.Name != "" {
		return names.Parse(r.Name)
	}
	return r.form
}

// Roster is a read-only index of master records.
type Roster struct {
	records []Record
	byID    map[string][]int
	byKey   map[string][]int
}

// New indexes the given records. Records without an ID or a name are
// skipped.
func New(records ...Record) *Roster {
	r := &Roster{
		byID:  make(map[string][]int),
		byKey: make(map[string][]int),
	}
	for _, rec := range records {
		if rec.ID == "" || rec.Name == "" {
			continue
		}
		if rec.form.IsEmpty() {
			rec.form = names.Parse(rec.Name)
		}
		idx := len(r.records)
		r.records = append(r.records, rec)
		r.byID[rec.ID] = append(r.byID[rec.ID], idx)
		if rec.form.Given != "" {
			key := rec.form.Key()
			r.byKey[key] = append(r.byKey[key], idx)
		}
	}
	return r
}

// Len returns the number of records. A nil roster is empty.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Records returns all records in input order.
func (r *Roster) Records() []Record {
	if r == nil {
		return nil
	}
	return slices.Clone(r.records)
}

// ByID returns every record carrying id.
func (r *Roster) ByID(id string) []Record {
	if r == nil {
		return nil
	}
	return r.collect(r.byID[id])
}

// ByKey returns every record whose name has the comparison key.
func (r *Roster) ByKey(key string) []Record {
	if r == nil {
		return nil
	}
	return r.collect(r.byKey[key])
}

func (r *Roster) collect(idx []int) []Record {
	out := make([]Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.records[i])
	}
	return out
}
