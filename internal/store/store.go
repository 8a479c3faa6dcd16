// Package store persists resolution runs so earlier results can be listed
// and compared. PostgreSQL is used for postgres:// DSNs and SQLite for
// everything else.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/agentstation/rollcall/pkg/audit"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// Store wraps a database connection.
type Store struct {
	db *gorm.DB
}

// Driver names a supported database backend.
type Driver string

// Supported drivers.
const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DriverFor picks the backend implied by a DSN.
func DriverFor(dsn string) Driver {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open connects to the database and runs migrations.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, &errors.ValidationError{Field: "dsn", Message: "database DSN is empty"}
	}

	var dialector gorm.Dialector
	switch DriverFor(dsn) {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.WrapResource("connect", "database", string(DriverFor(dsn)), err)
	}
	s := &Store{db: db}
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// AutoMigrate creates or updates the run tables.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Run{}, &EntityRecord{}, &MergeEventRecord{}, &MatchRecord{}); err != nil {
		return errors.WrapResource("migrate", "database", "", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRun converts a resolution result and its audit report into a storable
// run. sources lists the period files the run was built from.
func NewRun(result *resolver.Result, report *audit.Report, sources []string) *Run {
	run := &Run{
		ID:           uuid.New().String(),
		Threshold:    result.Metadata.Threshold,
		Periods:      len(result.Metadata.Periods),
		Observations: result.Metadata.Stats.ObservationsProcessed,
		Entities:     len(result.Entities),
		Merges:       result.Metadata.Stats.Merges,
		Ambiguities:  len(result.Ambiguities),
		Sources:      joinList(sources),
		Summary:      result.Summary(),
	}
	if report != nil {
		run.Suspicious = len(report.Suspicious)
	}

	for _, e := range result.Entities {
		rec := EntityRecord{
			RunID:       run.ID,
			Ref:         e.Ref,
			OutputID:    e.PrimaryID(),
			DisplayName: e.DisplayName,
			IDs:         joinList(e.IDs),
			Names:       joinList(e.Names),
			Department:  e.Department,
			FirstPeriod: e.FirstPeriod.Label,
			LastPeriod:  e.LastPeriod.Label,
			Metrics:     MetricsColumn(e.Metrics),
			Notes:       joinList(e.Notes),
		}
		if report != nil {
			if id, ok := report.OutputIDs[e.Ref]; ok {
				rec.OutputID = id
			}
		}
		run.EntityRecords = append(run.EntityRecords, rec)

		for _, ev := range e.Events {
			run.MergeEvents = append(run.MergeEvents, MergeEventRecord{
				RunID:      run.ID,
				Entity:     e.Ref,
				Ordinal:    ev.Period.Ordinal,
				Period:     ev.Period.Label,
				Layer:      ev.Layer.String(),
				Existing:   ev.Existing.String(),
				Incoming:   ev.Incoming.String(),
				Similarity: ev.Similarity,
			})
		}
	}

	if report != nil && report.Matches != nil {
		for _, m := range report.Matches.Results {
			rec := MatchRecord{
				RunID:          run.ID,
				Entity:         m.Entity,
				Classification: string(m.Classification),
				Similarity:     m.Similarity,
				Note:           m.Note,
			}
			if m.Record != nil {
				rec.RosterID = m.Record.ID
				rec.RosterName = m.Record.Name
			}
			run.Matches = append(run.Matches, rec)
		}
	}
	return run
}

// SaveRun persists a run with its entities, merge events and matches in
// one transaction.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return &errors.ValidationError{Field: "id", Value: run.ID, Message: "run ID must be a UUID"}
	}
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(run).Error; err != nil {
			return err
		}
		for i := range run.EntityRecords {
			run.EntityRecords[i].RunID = run.ID
		}
		for i := range run.MergeEvents {
			run.MergeEvents[i].RunID = run.ID
		}
		for i := range run.Matches {
			run.Matches[i].RunID = run.ID
		}
		if len(run.EntityRecords) > 0 {
			if err := tx.CreateInBatches(run.EntityRecords, 200).Error; err != nil {
				return err
			}
		}
		if len(run.MergeEvents) > 0 {
			if err := tx.CreateInBatches(run.MergeEvents, 200).Error; err != nil {
				return err
			}
		}
		if len(run.Matches) > 0 {
			if err := tx.CreateInBatches(run.Matches, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.WrapResource("create", "run", run.ID, err)
	}

	logging.FromContext(ctx).Info().
		Str("run_id", run.ID).
		Int("entities", len(run.EntityRecords)).
		Int("merge_events", len(run.MergeEvents)).
		Dur("duration", time.Since(start)).
		Msg("Saved run")
	return nil
}

// ListRuns returns the most recent runs first, without their children. A
// limit of zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, errors.WrapResource("list", "runs", "", err)
	}
	return runs, nil
}

// GetRun loads one run with its entities, merge events and matches. The ID
// may be a unique prefix of a run ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &errors.ValidationError{Field: "id", Message: "run ID is empty"}
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Preload("EntityRecords", func(db *gorm.DB) *gorm.DB { return db.Order("ref") }).
		Preload("MergeEvents", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal, id") }).
		Preload("Matches", func(db *gorm.DB) *gorm.DB { return db.Order("entity") }).
		Where("id LIKE ?", id+"%").
		Limit(2).
		Find(&runs).Error
	if err != nil {
		return nil, errors.WrapResource("fetch", "run", id, err)
	}
	switch len(runs) {
	case 0:
		return nil, errors.NewNotFoundError("run", id)
	case 1:
		return &runs[0], nil
	default:
		return nil, &errors.ValidationError{Field: "id", Value: id, Message: fmt.Sprintf("run ID prefix %q is ambiguous", id)}
	}
}
