package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/rollcall/pkg/attendance"
)

// MetricsColumn stores a metric vector as a JSON array.
type MetricsColumn attendance.Metrics

// Scan implements the sql.Scanner interface
func (m *MetricsColumn) Scan(value interface{}) error {
	if value == nil {
		*m = MetricsColumn{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metrics column type %T", value)
	}
	return json.Unmarshal(data, (*[attendance.NumCategories]float64)(m))
}

// Value implements the driver.Valuer interface
func (m MetricsColumn) Value() (driver.Value, error) {
	data, err := json.Marshal([attendance.NumCategories]float64(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Metrics returns the stored vector.
func (m MetricsColumn) Metrics() attendance.Metrics {
	return attendance.Metrics(m)
}

// Run is one stored resolution run.
type Run struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Threshold    float64   `json:"threshold"`
	Periods      int       `json:"periods"`
	Observations int       `json:"observations"`
	Entities     int       `json:"entities"`
	Merges       int       `json:"merges"`
	Ambiguities  int       `json:"ambiguities"`
	Suspicious   int       `json:"suspicious"`
	Sources      string    `gorm:"type:text" json:"sources"`
	Summary      string    `gorm:"type:text" json:"summary"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	EntityRecords []EntityRecord     `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"entity_records,omitempty"`
	MergeEvents   []MergeEventRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"merge_events,omitempty"`
	Matches       []MatchRecord      `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"matches,omitempty"`
}

// TableName sets the table name
func (Run) TableName() string {
	return "runs"
}

// SourceList splits the stored source paths.
func (r *Run) SourceList() []string {
	return splitList(r.Sources)
}

// EntityRecord is one resolved entity of a run.
type EntityRecord struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	RunID       string        `gorm:"index;size:36;not null" json:"run_id"`
	Ref         string        `gorm:"size:16;not null" json:"ref"`
	OutputID    string        `gorm:"size:64" json:"output_id"`
	DisplayName string        `gorm:"size:255" json:"display_name"`
	IDs         string        `gorm:"type:text" json:"ids"`
	Names       string        `gorm:"type:text" json:"names"`
	Department  string        `gorm:"size:255" json:"department"`
	FirstPeriod string        `gorm:"size:64" json:"first_period"`
	LastPeriod  string        `gorm:"size:64" json:"last_period"`
	Metrics     MetricsColumn `gorm:"type:text" json:"metrics"`
	Notes       string        `gorm:"type:text" json:"notes"`
}

// TableName sets the table name
func (EntityRecord) TableName() string {
	return "entities"
}

// IDList splits the stored IDs.
func (e *EntityRecord) IDList() []string {
	return splitList(e.IDs)
}

// MergeEventRecord is one merge decision of a run.
type MergeEventRecord struct {
	ID         uint     `gorm:"primaryKey" json:"-"`
	RunID      string   `gorm:"index;size:36;not null" json:"run_id"`
	Entity     string   `gorm:"size:16;not null" json:"entity"`
	Ordinal    int      `json:"ordinal"`
	Period     string   `gorm:"size:64" json:"period"`
	Layer      string   `gorm:"size:16" json:"layer"`
	Existing   string   `gorm:"size:255" json:"existing"`
	Incoming   string   `gorm:"size:255" json:"incoming"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// TableName sets the table name
func (MergeEventRecord) TableName() string {
	return "merge_events"
}

// MatchRecord is one roster reconciliation result of a run.
type MatchRecord struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	RunID          string  `gorm:"index;size:36;not null" json:"run_id"`
	Entity         string  `gorm:"size:16;not null" json:"entity"`
	Classification string  `gorm:"size:16" json:"classification"`
	RosterID       string  `gorm:"size:64" json:"roster_id"`
	RosterName     string  `gorm:"size:255" json:"roster_name"`
	Similarity     float64 `json:"similarity"`
	Note           string  `gorm:"type:text" json:"note"`
}

// TableName sets the table name
func (MatchRecord) TableName() string {
	return "matches"
}

const listSeparator = " | "

func joinList(items []string) string {
	return strings.Join(items, listSeparator)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}
