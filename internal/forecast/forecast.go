// Package forecast hands (date, value) series to an external Prophet process
// and reads its predictions back.
package forecast

import (
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Skufu/medplat/internal/dataset"
)

//go:embed prophet.py
var prophetScript []byte

const (
	DefaultPeriods = 7
	DefaultFreq    = "D"
	MaxPeriods     = 3650
)

var (
	ErrInvalidRequest   = errors.New("invalid forecast request")
	ErrInsufficientData = errors.New("not enough data for forecasting")
	ErrProcess          = errors.New("forecasting failed")
	ErrOutput           = errors.New("could not read forecast output")
)

var freqRe = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}$`)

type Request struct {
	Field   string `json:"field"`
	Periods int    `json:"periods"`
	Freq    string `json:"freq"`
}

// Normalize applies defaults and validates the request.
func (r *Request) Normalize() error {
	if r.Field == "" {
		return fmt.Errorf("%w: missing field parameter", ErrInvalidRequest)
	}
	if r.Periods == 0 {
		r.Periods = DefaultPeriods
	}
	if r.Periods < 1 || r.Periods > MaxPeriods {
		return fmt.Errorf("%w: periods must be between 1 and %d", ErrInvalidRequest, MaxPeriods)
	}
	if r.Freq == "" {
		r.Freq = DefaultFreq
	}
	if !freqRe.MatchString(r.Freq) {
		return fmt.Errorf("%w: invalid freq %q", ErrInvalidRequest, r.Freq)
	}
	return nil
}

type Point struct {
	DS string
	Y  float64
}

// Pairs extracts (date, value) points for field. The date column is "date",
// then "ds", then the first field whose name contains "date".
func Pairs(rows []dataset.Row, field string) []Point {
	dateField := dataset.DateField(dataset.Infer(rows).All)
	if dateField == "" {
		return nil
	}
	var points []Point
	for _, row := range rows {
		dv, _ := row.Get(dateField)
		t, ok := dataset.ParseDate(dv)
		if !ok {
			continue
		}
		yv, _ := row.Get(field)
		y, ok := dataset.Number(yv)
		if !ok {
			continue
		}
		points = append(points, Point{DS: dataset.FormatDate(t), Y: y})
	}
	return points
}

type Result struct {
	Field    string        `json:"field"`
	Periods  int           `json:"periods"`
	Freq     string        `json:"freq"`
	Forecast []dataset.Row `json:"forecast"`
}

// Job describes one external run. All paths live under Dir.
type Job struct {
	Dir     string
	Script  string
	Input   string
	Output  string
	Periods int
	Freq    string
}

type Runner interface {
	Run(ctx context.Context, job Job) error
}

type Service struct {
	runner  Runner
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

func NewService(runner Runner, concurrency int, timeout time.Duration, logger *slog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		runner:  runner,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
		logger:  logger,
	}
}

// Forecast validates req, exports the series and runs the external process.
// Requests with fewer than two points fail before any process starts.
func (s *Service) Forecast(ctx context.Context, rows []dataset.Row, req Request) (*Result, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	points := Pairs(rows, req.Field)
	s.logger.Info("forecast requested", "field", req.Field, "points", len(points), "periods", req.Periods, "freq", req.Freq)
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for forecast slot: %w", err)
	}
	defer s.sem.Release(1)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "medplat-forecast-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	job := Job{
		Dir:     dir,
		Script:  filepath.Join(dir, "run_prophet.py"),
		Input:   filepath.Join(dir, "input.csv"),
		Output:  filepath.Join(dir, "output.csv"),
		Periods: req.Periods,
		Freq:    req.Freq,
	}
	if err := os.WriteFile(job.Script, prophetScript, 0o600); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	if err := writeInput(job.Input, points); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	start := time.Now()
	if err := s.runner.Run(ctx, job); err != nil {
		s.logger.Error("forecast process failed", "field", req.Field, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProcess, err)
	}

	f, err := os.Open(job.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	defer f.Close()

	out, err := ParseOutput(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("forecast finished", "field", req.Field, "rows", len(out), "elapsed", time.Since(start))

	return &Result{Field: req.Field, Periods: req.Periods, Freq: req.Freq, Forecast: out}, nil
}

func writeInput(path string, points []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"ds", "y"})
	for _, p := range points {
		_ = w.Write([]string{p.DS, strconv.FormatFloat(p.Y, 'f', -1, 64)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseOutput reads the process output CSV into rows. Numeric-looking cells
// become numbers.
func ParseOutput(r io.Reader) ([]dataset.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrOutput, err)
	}

	rows := []dataset.Row{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutput, err)
		}
		var row dataset.Row
		for i, h := range header {
			var cell string
			if i < len(record) {
				cell = record[i]
			}
			row.Set(h, dataset.ParseCell(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
