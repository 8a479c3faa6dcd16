package sources

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/rollcall/pkg/attendance"
	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/logging"
	"github.com/agentstation/rollcall/pkg/roster"
)

// Loader reads periods and rosters through a FileReader.
type Loader struct {
	reader      FileReader
	concurrency int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConcurrency bounds how many period files are parsed at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader returns a loader over the given reader. A nil reader reads
// from the local filesystem.
func NewLoader(reader FileReader, opts ...LoaderOption) *Loader {
	if reader == nil {
		reader = &FilesystemReader{}
	}
	l := &Loader{reader: reader, concurrency: constants.MaxConcurrentLoads}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadPeriod reads and parses one period file.
func (l *Loader) LoadPeriod(ctx context.Context, path string) (attendance.Period, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	data, err := l.reader.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return attendance.Period{}, errors.NewNotFoundError("period file", path)
		}
		return attendance.Period{}, errors.WrapIO("read", path, err)
	}
	p, err := parsePeriod(path, data)
	if err != nil {
		return attendance.Period{}, err
	}

	logger.Debug().
		Str("source", path).
		Str("period", p.Label).
		Int("ordinal", p.Ordinal).
		Int("observations", len(p.Observations)).
		Dur("duration", time.Since(start)).
		Msg("Loaded period")
	return p, nil
}

// LoadPeriods reads every path concurrently and returns the periods in
// chronological order. The first failure cancels the remaining loads.
// Two files with the same ordinal are rejected.
func (l *Loader) LoadPeriods(ctx context.Context, paths []string) ([]attendance.Period, error) {
	if len(paths) == 0 {
		return nil, &errors.ValidationError{Field: "paths", Message: "no period files given"}
	}

	p := pool.NewWithResults[attendance.Period]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(l.concurrency)
	for _, path := range paths {
		p.Go(func(ctx context.Context) (attendance.Period, error) {
			return l.LoadPeriod(logging.WithSource(ctx, path), path)
		})
	}
	periods, err := p.Wait()
	if err != nil {
		return nil, err
	}

	attendance.SortPeriods(periods)
	if err := attendance.ValidateOrder(periods); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Int("periods", len(periods)).
		Int("observations", countObservations(periods)).
		Msg("Loaded attendance periods")
	return periods, nil
}

// LoadRoster reads a master roster file.
func (l *Loader) LoadRoster(ctx context.Context, path string) (*roster.Roster, error) {
	data, err := l.reader.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("roster file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	r, err := parseRoster(path, data)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Str("source", path).
		Int("records", r.Len()).
		Msg("Loaded roster")
	return r, nil
}

// LoadPeriods reads period files from the local filesystem.
func LoadPeriods(ctx context.Context, paths []string) ([]attendance.Period, error) {
	return NewLoader(nil).LoadPeriods(ctx, paths)
}

// LoadRoster reads a roster file from the local filesystem.
func LoadRoster(ctx context.Context, path string) (*roster.Roster, error) {
	return NewLoader(nil).LoadRoster(ctx, path)
}

// Discover expands a glob into the supported period files it matches, in
// lexical order.
func Discover(pattern string) ([]string, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = constants.DefaultPeriodGlob
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &errors.ValidationError{Field: "glob", Value: pattern, Message: err.Error()}
	}
	var out []string
	for _, m := range matches {
		if _, ok := DetectFormat(m); !ok {
			continue
		}
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func countObservations(periods []attendance.Period) int {
	n := 0
	for _, p := range periods {
		n += len(p.Observations)
	}
	return n
}
