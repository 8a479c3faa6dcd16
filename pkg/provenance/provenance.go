// Package provenance records where each field value of a resolved entity
// came from: the period, source row and matching rule that contributed it.
package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
)

// Field names an entity field whose origin is tracked.
type Field string

// Tracked fields.
const (
	FieldID   Field = "id"
	FieldName Field = "name"
	FieldNote Field = "note"
)

// Provenance is one contribution of a value to an entity field.
type Provenance struct {
	Period      int    `json:"period" yaml:"period"`
	PeriodLabel string `json:"period_label" yaml:"period_label"`
	Row         int    `json:"row" yaml:"row"`
	Value       string `json:"value" yaml:"value"`
	Reason      string `json:"reason" yaml:"reason"` // "created" or the merge layer
}

// Map tracks provenance for many entities.
type Map map[string][]Provenance // key is "entityRef:field"

// Tracker records provenance during a resolution pass.
type Tracker interface {
	// Track records one contribution to an entity field
	Track(entity string, field Field, p Provenance)

	// FindByField retrieves the history of one entity field
	FindByField(entity string, field Field) []Provenance

	// FindByEntity retrieves every tracked field of an entity
	FindByEntity(entity string) map[Field][]Provenance

	// Map returns a copy of the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker records
// nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (p *tracker) Track(entity string, field Field, history Provenance) {
	if !p.enabled {
		return
	}
	key := makeKey(entity, field)
	p.provenance[key] = append(p.provenance[key], history)
}

func (p *tracker) FindByField(entity string, field Field) []Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance[makeKey(entity, field)]
}

func (p *tracker) FindByEntity(entity string) map[Field][]Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance.Entity(entity)
}

func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

func (p *tracker) Clear() {
	p.provenance = make(Map)
}

func makeKey(entity string, field Field) string {
	return fmt.Sprintf("%s:%s", entity, field)
}

// Entity returns every tracked field of one entity.
func (m Map) Entity(entity string) map[Field][]Provenance {
	result := make(map[Field][]Provenance)
	prefix := entity + ":"
	for key, info := range m {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[Field(field)] = info
		}
	}
	return result
}

// Report is a per-entity view of a provenance map.
type Report struct {
	Entities map[string]EntityProvenance
}

// EntityProvenance holds the field histories of one entity.
type EntityProvenance struct {
	Ref    string
	Fields map[Field]FieldHistory
}

// FieldHistory is the ordered contributions to a field and the distinct
// values among them.
type FieldHistory struct {
	History  []Provenance
	Distinct []string
}

// Conflicting reports whether the field received more than one value.
func (f FieldHistory) Conflicting() bool {
	return len(f.Distinct) > 1
}

// GenerateReport groups a provenance map by entity.
func GenerateReport(m Map) *Report {
	report := &Report{Entities: make(map[string]EntityProvenance)}

	for key, infos := range m {
		ref, field, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		ep, exists := report.Entities[ref]
		if !exists {
			ep = EntityProvenance{Ref: ref, Fields: make(map[Field]FieldHistory)}
		}

		history := append([]Provenance{}, infos...)
		sort.SliceStable(history, func(i, j int) bool {
			if history[i].Period != history[j].Period {
				return history[i].Period < history[j].Period
			}
			return history[i].Row < history[j].Row
		})

		fh := FieldHistory{History: history}
		seen := make(map[string]bool)
		for _, h := range history {
			if !seen[h.Value] {
				seen[h.Value] = true
				fh.Distinct = append(fh.Distinct, h.Value)
			}
		}
		ep.Fields[Field(field)] = fh
		report.Entities[ref] = ep
	}

	return report
}

// String renders the report as indented text.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	refs := make([]string, 0, len(r.Entities))
	for ref := range r.Entities {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	for _, ref := range refs {
		ep := r.Entities[ref]
		sb.WriteString(ref + "\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		fields := make([]string, 0, len(ep.Fields))
		for f := range ep.Fields {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)

		for _, f := range fields {
			fh := ep.Fields[Field(f)]
			fmt.Fprintf(&sb, "  %s: %s\n", f, strings.Join(fh.Distinct, ", "))
			if !fh.Conflicting() {
				continue
			}
			for _, h := range fh.History {
				fmt.Fprintf(&sb, "    - %s row %d: %s (%s)\n", h.PeriodLabel, h.Row, h.Value, h.Reason)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// File is a provenance map stored on disk.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI flags
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &pf, nil
}

// Save writes provenance data to a YAML file.
func Save(path string, m Map) error {
	data, err := yaml.Marshal(File{Provenance: m})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
