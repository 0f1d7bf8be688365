package generator

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"

	"pos-workshop/internal/database"
	"pos-workshop/internal/model"
)

// Sink receives generated documents one collection batch at a time.
type Sink interface {
	Prepare(ctx context.Context) error
	Write(ctx context.Context, collection string, docs []interface{}) error
	Close() error
}

// FileSink writes one newline-delimited Extended JSON file per collection,
// ready for mongoimport.
type FileSink struct {
	Dir string

	files   map[string]*os.File
	writers map[string]*bufio.Writer
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// FileName returns the file a collection is written to.
func FileName(collection string) string {
	return collection + ".json"
}

func (s *FileSink) Prepare(ctx context.Context) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	s.files = make(map[string]*os.File, len(model.Collections))
	s.writers = make(map[string]*bufio.Writer, len(model.Collections))
	for _, c := range model.Collections {
		f, err := os.Create(filepath.Join(s.Dir, FileName(c)))
		if err != nil {
			s.Close()
			return err
		}
		s.files[c] = f
		s.writers[c] = bufio.NewWriter(f)
	}
	return nil
}

func (s *FileSink) Write(ctx context.Context, collection string, docs []interface{}) error {
	w, ok := s.writers[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %s", collection)
	}
	for _, doc := range docs {
		line, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileSink) Close() error {
	var firstErr error
	for c, f := range s.files {
		if err := s.writers[c].Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files, s.writers = nil, nil
	return firstErr
}

// DatabaseSink writes straight into a running database through a driver.
// The driver is expected to be connected already; Close does not close it.
type DatabaseSink struct {
	Driver database.DatabaseDriver
}

func (s *DatabaseSink) Prepare(ctx context.Context) error {
	return s.Driver.Reset(ctx, model.Collections)
}

func (s *DatabaseSink) Write(ctx context.Context, collection string, docs []interface{}) error {
	return s.Driver.InsertDocuments(ctx, collection, docs)
}

func (s *DatabaseSink) Close() error { return nil }
