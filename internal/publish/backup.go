package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/litwatch/research-digest/internal/report"
)

// BackupName returns the file name for a report generated at now.
func BackupName(now time.Time) string {
	return "research_report_" + now.Format("20060102_150405") + ".md"
}

// WriteBackup writes r as markdown into dir and returns the file path.
func WriteBackup(dir string, now time.Time, r report.Report) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "publish: create backup dir")
	}

	path := filepath.Join(dir, BackupName(now))
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return "", eris.Wrap(err, "publish: write backup")
	}
	return path, nil
}

// WriteFallback prints the full report framed for manual copy when the
// tracker could not be reached.
func WriteFallback(w io.Writer, r report.Report) error {
	sep := strings.Repeat("=", 50)
	_, err := fmt.Fprintf(w, "%s\nTITLE: %s\n%s\n%s\n", sep, r.Title, sep, r.Body)
	if err != nil {
		return eris.Wrap(err, "publish: write fallback")
	}
	return nil
}
