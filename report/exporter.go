package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/VAIBHAVSING/bucketwise/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultDir is the output directory used when none is configured.
const DefaultDir = "report_output"

// TimestampLayout names the report files.
const TimestampLayout = "20060102_150405"

// Output describes the files written by one export.
type Output struct {
	CSVPath   string
	ChartPath string
	Regions   []RegionSummary
}

// Exporter writes the CSV report and region chart into a directory.
type Exporter struct {
	fs  afero.Fs
	dir string
	log *logrus.Entry
}

// NewExporter creates an exporter writing to dir on fs. A nil fs means the
// OS filesystem.
func NewExporter(fs afero.Fs, dir string) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = DefaultDir
	}
	return &Exporter{
		fs:  fs,
		dir: dir,
		log: logrus.WithFields(logrus.Fields{"component": "report_exporter", "dir": dir}),
	}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Export writes s3_report_<ts>.csv and s3_cost_chart_<ts>.png, where ts is
// now formatted with TimestampLayout.
func (e *Exporter) Export(rows []Row, now time.Time) (*Output, error) {
	ts := now.Format(TimestampLayout)
	out := &Output{
		CSVPath:   filepath.Join(e.dir, fmt.Sprintf("s3_report_%s.csv", ts)),
		ChartPath: filepath.Join(e.dir, fmt.Sprintf("s3_cost_chart_%s.png", ts)),
		Regions:   SummarizeRegions(rows),
	}

	if err := e.fs.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, rows); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := registry.WriteFileAtomic(e.fs, out.CSVPath, csvBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	e.log.WithFields(logrus.Fields{"file": out.CSVPath, "rows": len(rows)}).Info("Report written")

	var pngBuf bytes.Buffer
	if err := RenderChart(&pngBuf, out.Regions); err != nil {
		return nil, err
	}
	if err := registry.WriteFileAtomic(e.fs, out.ChartPath, pngBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}
	e.log.WithFields(logrus.Fields{"file": out.ChartPath, "regions": len(out.Regions)}).Info("Chart written")

	return out, nil
}
