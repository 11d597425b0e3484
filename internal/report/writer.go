package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// File name timestamp, chosen to sort lexically.
const fileTimeLayout = "2006-01-02-15-04-05"

// Subject line used for every mailed overview report.
const mailSubject = "Windows Defender Status Report"

// Mailer delivers the overview report. Implementations make a single attempt;
// delivery failure never fails the run.
type Mailer interface {
	Send(subject, htmlBody string) error
}

// Writer persists rendered reports into one output directory and optionally
// mails the overview.
type Writer struct {
	dir    string
	mailer Mailer // nil disables delivery
	log    *zap.Logger
}

// NewWriter creates a Writer targeting dir. Pass a nil mailer to skip
// delivery.
func NewWriter(dir string, mailer Mailer, log *zap.Logger) *Writer {
	return &Writer{dir: dir, mailer: mailer, log: log}
}

// WriteAll persists one file per host document plus the overview, naming each
// after its host (or "Overview") and the run timestamp. A failed write is
// logged and does not stop the remaining artifacts; all failures come back
// joined. Mail delivery happens after the writes and never rolls them back.
func (w *Writer) WriteAll(hostDocs map[string]string, overview string, now time.Time) error {
	var errs *multierror.Error

	for host, html := range hostDocs {
		path, err := w.write(host, html, now)
		if err != nil {
			w.log.Error("host report not written", zap.String("host", host), zap.Error(err))
			errs = multierror.Append(errs, err)
			continue
		}
		w.log.Info("host report written", zap.String("path", path))
	}

	path, err := w.write("Overview", overview, now)
	if err != nil {
		w.log.Error("overview report not written", zap.Error(err))
		errs = multierror.Append(errs, err)
	} else {
		w.log.Info("overview report written", zap.String("path", path))
	}

	if w.mailer != nil {
		if err := w.mailer.Send(mailSubject, overview); err != nil {
			w.log.Warn("overview mail delivery failed", zap.Error(err))
		} else {
			w.log.Info("overview report mailed")
		}
	}

	return errs.ErrorOrNil()
}

func (w *Writer) write(name, html string, now time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.html", name, now.Format(fileTimeLayout)))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
