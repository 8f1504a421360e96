package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"cohort.regsund.org/internal/matching"
)

const dateLayout = "2006-01-02"

// WritePairs exports matched pairs to a CSV file. The file is compressed
// transparently when path ends in .gz or .zst.
func WritePairs(path string, pairs []matching.MatchedPair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pairs file: %w", err)
	}
	defer f.Close()

	out, closeFn, err := wrapCompression(f, path)
	if err != nil {
		return err
	}

	if err := writePairsCSV(out, pairs); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("failed to finalize pairs file: %w", err)
	}
	return nil
}

func wrapCompression(f *os.File, path string) (io.Writer, func() error, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gw := gzip.NewWriter(f)
		return gw, gw.Close, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, zw.Close, nil
	default:
		return f, func() error { return nil }, nil
	}
}

func writePairsCSV(out io.Writer, pairs []matching.MatchedPair) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"case_pnr", "case_birth_date", "control_pnr", "control_birth_date", "match_date"}); err != nil {
		return fmt.Errorf("failed to write pairs header: %w", err)
	}
	for _, p := range pairs {
		record := []string{
			p.CasePNR,
			p.CaseBirthDate.Format(dateLayout),
			p.ControlPNR,
			p.ControlBirthDate.Format(dateLayout),
			p.MatchDate.Format(dateLayout),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write pair row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
