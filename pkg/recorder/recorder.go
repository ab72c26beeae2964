// Package recorder stores the decisions of model-driven opponents as Parquet
// batches, ready for offline training.
package recorder

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	golog "github.com/tochemey/goakt/v3/log"
)

const schemaVersion = "decision_row_v1"

// Decision is one (frame, controller) sample: what the model saw and what
// it chose.
//
// Obs is the stacked observation quantized to one byte per pixel
// (see Quantize). Special follows policy.Special: 0=none, 1=shoot, 2=split.
type Decision struct {
	Frame      int64   `parquet:"frame"`
	Controller int32   `parquet:"controller"`
	Archetype  string  `parquet:"archetype,dict"`
	Mass       float32 `parquet:"mass"`
	MoveX      float32 `parquet:"move_x"`
	MoveY      float32 `parquet:"move_y"`
	Special    int32   `parquet:"special"`
	ObsDepth   int32   `parquet:"obs_depth"`
	ObsSize    int32   `parquet:"obs_size"`
	Obs        []byte  `parquet:"obs"`
}

// Recorder buffers decisions and writes one Parquet file per batch.
// It is not safe for concurrent use.
type Recorder struct {
	outDir    string
	tmpDir    string
	batchSize int
	log       golog.Logger

	rows  []Decision
	seq   int
	files []string
	total int
}

// New prepares outDir (and outDir/tmp). A batch is written every batchSize
// rows; batchSize <= 0 only writes on Flush.
func New(outDir string, batchSize int, logger golog.Logger) (*Recorder, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}
	tmpDir := filepath.Join(abs, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &Recorder{outDir: abs, tmpDir: tmpDir, batchSize: batchSize, log: logger}, nil
}

func (r *Recorder) Files() []string { return append([]string(nil), r.files...) }
func (r *Recorder) Buffered() int   { return len(r.rows) }
func (r *Recorder) Total() int      { return r.total }

// Add buffers rows and flushes once the batch is full.
func (r *Recorder) Add(rows ...Decision) error {
	r.rows = append(r.rows, rows...)
	if r.batchSize > 0 && len(r.rows) >= r.batchSize {
		_, err := r.Flush()
		return err
	}
	return nil
}

// Flush writes the buffered rows to outDir/tmp, then moves the file into
// outDir so readers never see a partial file. It returns the final path, or
// "" when nothing was buffered.
func (r *Recorder) Flush() (string, error) {
	if len(r.rows) == 0 {
		return "", nil
	}
	r.seq++
	name := fmt.Sprintf("decisions_%d_%04d.parquet", time.Now().UnixNano(), r.seq)
	finalPath := filepath.Join(r.outDir, name)
	tmpPath := filepath.Join(r.tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, r.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("obs"),
		parquet.KeyValueMetadata("schema", schemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}

	r.log.Infof("recorded %d decisions to %s", len(r.rows), finalPath)
	r.total += len(r.rows)
	r.files = append(r.files, finalPath)
	clear(r.rows)
	r.rows = r.rows[:0]
	return finalPath, nil
}

// Close flushes what is left.
func (r *Recorder) Close() error {
	_, err := r.Flush()
	return err
}

// Load reads a decision file back.
func Load(path string) ([]Decision, error) {
	rows, err := parquet.ReadFile[Decision](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}

// Quantize maps intensities in [0, 1] to bytes. Out of range values are
// clamped.
func Quantize(obs []float32) []byte {
	out := make([]byte, len(obs))
	for i, v := range obs {
		out[i] = byte(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return out
}
