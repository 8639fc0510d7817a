package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"

	"github.com/julianstephens/meterlog/internal/logger"
	"github.com/julianstephens/meterlog/internal/models"
)

// LineError describes a line of the backing file that failed to parse.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Decode reads one reading per line. Blank lines are ignored and lines that
// fail to parse are reported in bad without stopping the scan. Lines have no
// length limit, so a single huge line cannot hide the ones after it.
func Decode(r io.Reader) (readings []models.Reading, bad []LineError, err error) {
	br := bufio.NewReader(r)

	lineNo := 0
	for {
		text, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return nil, nil, rerr
		}
		if text == "" && rerr == io.EOF {
			break
		}

		lineNo++
		text = strings.TrimRight(text, "\r\n")
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) != "" {
			reading, perr := models.ParseLine(text)
			if perr != nil {
				bad = append(bad, LineError{Line: lineNo, Text: text, Err: perr})
			} else {
				readings = append(readings, reading)
			}
		}

		if rerr == io.EOF {
			break
		}
	}
	return readings, bad, nil
}

// Encode writes one canonical line per reading, in order.
func Encode(w io.Writer, readings []models.Reading) error {
	bw := bufio.NewWriter(w)
	for _, r := range readings {
		if _, err := bw.WriteString(r.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TextStore keeps readings in a UTF-8 text file, one reading per line.
//
// TextStore is not safe for concurrent use, and running two processes against
// the same file loses updates: the last full rewrite wins.
type TextStore struct {
	path string
	log  *log.Logger
}

func NewTextStore(path string, l *log.Logger) *TextStore {
	return &TextStore{
		path: path,
		log:  logger.OrNop(l),
	}
}

func (s *TextStore) Load() ([]models.Reading, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("Backing file not found, starting empty", "path", s.path)
			return []models.Reading{}, nil
		}
		return nil, fmt.Errorf("failed to open readings file: %w", err)
	}
	defer f.Close()

	readings, bad, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read readings file: %w", err)
	}
	for _, le := range bad {
		s.log.Error("Skipping malformed line", "path", s.path, "line", le.Line, "text", le.Text, "error", le.Err)
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	s.log.Debug("Loaded readings", "path", s.path, "count", len(readings), "skipped", len(bad))
	return readings, nil
}

// Save replaces the file with the given readings. The new content is staged
// in a temporary file and renamed over the old one.
func (s *TextStore) Save(readings []models.Reading) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, readings); err != nil {
		return fmt.Errorf("failed to serialize readings: %w", err)
	}

	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return fmt.Errorf("failed to write readings file: %w", err)
	}

	s.log.Debug("Saved readings", "path", s.path, "count", len(readings))
	return nil
}

func (s *TextStore) Close() error {
	return nil
}

func (s *TextStore) Path() string {
	return s.path
}
