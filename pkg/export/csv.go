// Package export writes the run's tables to disk. The tabular format and
// artifact naming live here, behind the pipeline's persistence boundary.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tubescribe/pkg/domain"
)

// utf8BOM makes spreadsheet tools detect UTF-8; the tables regularly carry
// Arabic text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer persists transcript and comment tables as CSV files under Dir,
// named from the sanitized title stem.
type Writer struct {
	Dir string
}

// NewWriter creates a writer targeting dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// WriteTranscript writes the transcript table and returns its path.
func (w *Writer) WriteTranscript(title string, segments []domain.TranscriptSegment) (string, error) {
	path := filepath.Join(w.Dir, SanitizeStem(title)+"_transcription.csv")

	rows := make([][]string, 0, len(segments)+1)
	rows = append(rows, []string{"start_time", "end_time", "text"})
	for _, s := range segments {
		rows = append(rows, []string{
			formatSeconds(s.StartSec),
			formatSeconds(s.EndSec),
			s.Text,
		})
	}
	return path, writeCSV(path, rows)
}

// WriteComments writes the comment table and returns its path.
func (w *Writer) WriteComments(title string, records []domain.CommentRecord) (string, error) {
	path := filepath.Join(w.Dir, SanitizeStem(title)+"_comments.csv")

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"author", "comment", "likes", "published_at"})
	for _, r := range records {
		rows = append(rows, []string{
			r.Author,
			r.Comment,
			strconv.FormatInt(r.Likes, 10),
			r.PublishedAt,
		})
	}
	return path, writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
