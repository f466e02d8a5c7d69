// Package export writes the rows shown in a table to CSV, locally and
// optionally to S3.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	appconfig "github.com/caredash/caredash/internal/config"
	apperrors "github.com/caredash/caredash/internal/errors"
	"github.com/caredash/caredash/internal/log"
)

// Table is a rendered snapshot of a table: header labels and cell text.
type Table struct {
	Entity  string
	Headers []string
	Rows    [][]string
}

// Result says where an export ended up. Location is empty without S3.
type Result struct {
	Path     string
	Location string
	Rows     int
}

// WriteCSV writes the header line followed by every row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is "<entity>-<yyyymmdd-hhmmss>.csv".
func FileName(entity string, now time.Time) string {
	entity = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '-'
		}
		return r
	}, entity)
	if entity == "" {
		entity = "export"
	}
	return fmt.Sprintf("%s-%s.csv", entity, now.Format("20060102-150405"))
}

// Exporter writes exports to a directory and, when configured, uploads them.
type Exporter struct {
	dir      string
	uploader *S3Uploader
	now      func() time.Time
}

// New creates an Exporter. An empty dir means <config dir>/exports.
// uploader may be nil.
func New(dir string, uploader *S3Uploader) *Exporter {
	return &Exporter{dir: dir, uploader: uploader, now: time.Now}
}

func (e *Exporter) directory() (string, error) {
	if e.dir != "" {
		return e.dir, nil
	}
	base, err := appconfig.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "exports"), nil
}

// Export saves t as CSV and uploads it when an uploader is set.
func (e *Exporter) Export(ctx context.Context, t Table) (Result, error) {
	dir, err := e.directory()
	if err != nil {
		return Result{}, apperrors.Wrap(err, "resolve export dir")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, apperrors.Wrap(err, "create export dir")
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, t); err != nil {
		return Result{}, apperrors.Wrap(err, "encode csv")
	}
	body := []byte(sb.String())

	name := FileName(t.Entity, e.now())
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0600); err != nil {
		return Result{}, apperrors.Wrap(err, "write export")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return Result{}, apperrors.Wrap(err, "write export")
	}

	res := Result{Path: path, Rows: len(t.Rows)}
	log.Info("table exported", "entity", t.Entity, "rows", res.Rows, "path", path)

	if e.uploader == nil {
		return res, nil
	}
	loc, err := e.uploader.Upload(ctx, name, body)
	if err != nil {
		return res, err
	}
	res.Location = loc
	return res, nil
}
