package datalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// FileStreamSink stores instrumentation streams as one append-only file per
// stream name. Opening the same name twice returns the same handle, so the
// underlying file is opened at most once per process. Streams are never
// closed mid-run; Close is for process shutdown only.
type FileStreamSink struct {
	dir string

	mu      sync.Mutex
	floats  map[string]*fileFloat64Stream
	strings map[string]*fileStringStream
}

func NewFileStreamSink(dir string) (*FileStreamSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStreamSink{
		dir:     dir,
		floats:  make(map[string]*fileFloat64Stream),
		strings: make(map[string]*fileStringStream),
	}, nil
}

func (s *FileStreamSink) OpenFloat64(name, unit string) (ports.Float64Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.floats[name]; ok {
		return st, nil
	}

	f, w, err := s.create(name, ".f64")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(w, "# unit: %s\n", unit); err != nil {
		f.Close()
		return nil, err
	}

	st := &fileFloat64Stream{file: f, w: w}
	s.floats[name] = st
	return st, nil
}

func (s *FileStreamSink) OpenString(name string) (ports.StringStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.strings[name]; ok {
		return st, nil
	}

	f, w, err := s.create(name, ".str")
	if err != nil {
		return nil, err
	}

	st := &fileStringStream{file: f, w: w}
	s.strings[name] = st
	return st, nil
}

// OpenCount reports how many distinct streams have been opened so far.
func (s *FileStreamSink) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.floats) + len(s.strings)
}

// Close flushes and closes every open stream. Call once at process exit.
func (s *FileStreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, st := range s.floats {
		errs = append(errs, st.close())
	}
	for _, st := range s.strings {
		errs = append(errs, st.close())
	}
	return errors.Join(errs...)
}

func (s *FileStreamSink) create(name, ext string) (*os.File, *bufio.Writer, error) {
	path := filepath.Join(s.dir, sanitize(name)+ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, bufio.NewWriter(f), nil
}

// sanitize keeps stream names usable as file names; prefixes contain '/'.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return r.Replace(name)
}

type fileFloat64Stream struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

func (s *fileFloat64Stream) Append(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "\n")
	return err
}

func (s *fileFloat64Stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

type fileStringStream struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

func (s *fileStringStream) Append(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.WriteString(v + "\n")
	return err
}

func (s *fileStringStream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

var _ ports.StreamSink = (*FileStreamSink)(nil)
