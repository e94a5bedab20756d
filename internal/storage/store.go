package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/physbox/internal/sim"
)

// ErrNoStates is returned for a run whose states.csv holds no rows.
var ErrNoStates = errors.New("storage: run has no recorded states")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded run. Gravity is in m/s², the scale in
// world units per meter.
type RunMetadata struct {
	ID             string             `json:"id"`
	Lesson         string             `json:"lesson"`
	Preset         string             `json:"preset,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Bodies         int                `json:"bodies"`
	Gravity        float64            `json:"gravity"`
	Restitution    float64            `json:"restitution"`
	Friction       float64            `json:"friction"`
	PixelsPerMeter float64            `json:"pixels_per_meter"`
	Width          float64            `json:"width"`
	Floor          float64            `json:"floor"`
	Steps          int                `json:"steps"`
	EnergyDrift    float64            `json:"energy_drift"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv under a fresh run directory and
// returns the run id. ID, Timestamp, Steps, EnergyDrift and Metrics are
// filled from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Lesson, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Lesson, now.UnixMilli(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	if len(result.Snapshots) > 0 {
		meta.Bodies = len(result.Snapshots[0].Bodies)
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.Snapshots) == 0 {
		w.Flush()
		return w.Error()
	}

	n := len(result.Snapshots[0].Bodies)
	header := []string{"time"}
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, snap := range result.Snapshots {
		t := snap.Time
		if i < len(result.Times) {
			t = result.Times[i]
		}
		row := []string{formatFloat(t)}
		for j := 0; j < n; j++ {
			if j >= len(snap.Bodies) {
				row = append(row, "", "", "", "")
				continue
			}
			b := snap.Bodies[j]
			row = append(row, formatFloat(b.X), formatFloat(b.Y), formatFloat(b.VX), formatFloat(b.VY))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// States is the decoded contents of a states.csv.
type States struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns the series for a header name such as "b0_y".
func (st *States) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range st.Columns {
		if c == name {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, 0, len(st.Rows))
	for _, row := range st.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, true
}

// Bodies is the number of bodies recorded per row.
func (st *States) Bodies() int {
	if len(st.Columns) < 1 {
		return 0
	}
	return (len(st.Columns) - 1) / 4
}

func (s *Store) LoadStates(runID string) (*States, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if len(records) < 2 {
		return nil, ErrNoStates
	}

	st := &States{
		Columns: records[0],
		Times:   make([]float64, 0, len(records)-1),
		Rows:    make([][]float64, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			row = append(row, val)
		}
		st.Times = append(st.Times, t)
		st.Rows = append(st.Rows, row)
	}

	return st, nil
}
