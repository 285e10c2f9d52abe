// Package storage persists plotted frames as a metadata.json file and an
// escape.csv grid of escape iterations (0 for cells that never escaped).
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/plot"
)

const (
	metadataFile = "metadata.json"
	gridFile     = "escape.csv"
)

// ErrShapeMismatch indicates a grid file that disagrees with its metadata.
var ErrShapeMismatch = errors.New("storage: grid does not match metadata")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir is the directory holding the files of export id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

type FrameMetadata struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Style     string           `json:"style"`
	MaxIter   int              `json:"max_iter"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Viewport  fractal.Viewport `json:"viewport"`
	Inside    int              `json:"inside"`
	Escaped   int              `json:"escaped"`
}

// Save writes frame under a new directory and returns its id.
func (s *Store) Save(frame *plot.Frame) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d_%d", frame.Style, frame.MaxIter, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	stats := frame.Stats()
	meta := FrameMetadata{
		ID:        id,
		Timestamp: now,
		Style:     frame.Style.String(),
		MaxIter:   frame.MaxIter,
		Width:     frame.Width,
		Height:    frame.Height,
		Viewport:  frame.Viewport,
		Inside:    stats.Inside,
		Escaped:   stats.Escaped,
	}

	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(dir, gridFile), frame); err != nil {
		return "", err
	}
	return id, nil
}

// writeFile creates path, runs write on it and reports the close error when
// write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeGrid(path string, frame *plot.Frame) error {
	return writeFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		for _, row := range frame.Rows {
			record := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				record[i] = strconv.Itoa(c.Result.Iterations)
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// List returns saved frames ordered by timestamp.
func (s *Store) List() ([]FrameMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FrameMetadata{}, nil
		}
		return nil, err
	}

	frames := make([]FrameMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		frames = append(frames, *meta)
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Timestamp.Before(frames[j].Timestamp)
	})
	return frames, nil
}

func (s *Store) Load(id string) (*FrameMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta FrameMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid reads the escape grid of a saved frame, row by row.
func (s *Store) LoadGrid(id string) ([][]int, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, id, gridFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) != meta.Height {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrShapeMismatch, len(records), meta.Height)
	}

	grid := make([][]int, len(records))
	for i, record := range records {
		if len(record) != meta.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShapeMismatch, i, len(record), meta.Width)
		}
		grid[i] = make([]int, len(record))
		for j, field := range record {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			grid[i][j] = v
		}
	}
	return grid, nil
}
