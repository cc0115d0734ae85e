// Package output writes generated demand profiles as per-minute CSV, optionally gzip compressed.
package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/synaptecltd/demand"
)

// Header is the first row written by WriteCSV.
var Header = []string{"minute", "occupancy", "lighting_kw", "appliances_w", "total_w"}

// FileName returns the output file name for a result.
func FileName(res *demand.Result, compress bool) string {
	name := res.ID.String() + ".csv"
	if compress {
		name += ".gz"
	}
	return name
}

type compressedFile struct {
	*gzip.Writer
	f *os.File
}

func (c *compressedFile) Close() error {
	if err := c.Writer.Close(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

// Create opens path for writing, truncating any existing file. Closing the returned writer flushes
// the compressed stream before closing the file.
func Create(path string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !compress {
		return f, nil
	}
	return &compressedFile{Writer: gzip.NewWriter(f), f: f}, nil
}

// WriteCSV writes one row per minute of the result.
func WriteCSV(w io.Writer, res *demand.Result) error {
	if res == nil {
		return fmt.Errorf("no result to write")
	}
	n := len(res.Combined)
	if len(res.Occupancy) != n || len(res.Lighting) != n || len(res.Appliances) != n {
		return fmt.Errorf("result %s has mismatched series lengths", res.ID)
	}

	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, len(Header))
	for i := 0; i < n; i++ {
		row[0] = strconv.Itoa(i)
		row[1] = strconv.Itoa(res.Occupancy[i])
		row[2] = strconv.FormatFloat(res.Lighting[i], 'f', -1, 64)
		row[3] = strconv.FormatFloat(res.Appliances[i], 'f', -1, 64)
		row[4] = strconv.FormatFloat(res.Combined[i], 'f', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// WriteFile writes a result to dir, named by FileName, and returns the path written.
func WriteFile(dir string, res *demand.Result, compress bool) (string, error) {
	path := filepath.Join(dir, FileName(res, compress))
	w, err := Create(path, compress)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(w, res); err != nil {
		w.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
