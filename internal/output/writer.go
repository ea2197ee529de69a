// internal/output/writer.go - Output writing implementation
package output

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileWriter writes every document to a single file
type FileWriter struct {
	formatter   Formatter
	destination Destination
}

// NewFileWriter creates a writer for the file at path
func NewFileWriter(fsys afero.Fs, config *WriterConfig, path string) (*FileWriter, error) {
	formatter, err := NewFormatter(config.Format, config.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	dest, err := newFileDestination(fsys, path, config.Compression)
	if err != nil {
		return nil, fmt.Errorf("failed to create file destination: %w", err)
	}

	return &FileWriter{
		formatter:   formatter,
		destination: dest,
	}, nil
}

// Write writes a single document
func (w *FileWriter) Write(doc *Document) error {
	data, err := w.formatter.Format(doc)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}

	if _, err := w.destination.Write(data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// WriteBatch writes all documents as one batch
func (w *FileWriter) WriteBatch(docs []*Document) error {
	data, err := w.formatter.FormatBatch(docs)
	if err != nil {
		return fmt.Errorf("batch formatting failed: %w", err)
	}

	if _, err := w.destination.Write(data); err != nil {
		return fmt.Errorf("batch write failed: %w", err)
	}
	return nil
}

// Name returns the path actually written to
func (w *FileWriter) Name() string {
	return w.destination.Name()
}

// Close closes the writer and underlying destination
func (w *FileWriter) Close() error {
	return w.destination.Close()
}

// StreamWriter writes documents to an io.Writer such as stdout
type StreamWriter struct {
	formatter Formatter
	out       io.Writer
}

// NewStreamWriter creates a writer that writes to out
func NewStreamWriter(out io.Writer, format Format, pretty bool) (*StreamWriter, error) {
	formatter, err := NewFormatter(format, pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}
	return &StreamWriter{formatter: formatter, out: out}, nil
}

// NewStdoutWriter creates a writer for standard output
func NewStdoutWriter(format Format, pretty bool) (*StreamWriter, error) {
	return NewStreamWriter(os.Stdout, format, pretty)
}

func (w *StreamWriter) emit(data []byte) error {
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil
	}
	_, err := w.out.Write([]byte("\n"))
	return err
}

// Write writes a single document
func (w *StreamWriter) Write(doc *Document) error {
	data, err := w.formatter.Format(doc)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}
	return w.emit(data)
}

// WriteBatch writes all documents as one batch
func (w *StreamWriter) WriteBatch(docs []*Document) error {
	data, err := w.formatter.FormatBatch(docs)
	if err != nil {
		return fmt.Errorf("batch formatting failed: %w", err)
	}
	return w.emit(data)
}

// Close is a no-op for stream writers
func (w *StreamWriter) Close() error {
	return nil
}

// MultiFileWriter writes each document to its own file under a directory
type MultiFileWriter struct {
	fs          afero.Fs
	formatter   Formatter
	baseDir     string
	compression bool
}

// NewMultiFileWriter creates a writer that outputs each document to a
// separate file named after its source
func NewMultiFileWriter(fsys afero.Fs, config *WriterConfig, baseDir string) (*MultiFileWriter, error) {
	formatter, err := NewFormatter(config.Format, config.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	if err := fsys.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &MultiFileWriter{
		fs:          fsys,
		formatter:   formatter,
		baseDir:     baseDir,
		compression: config.Compression,
	}, nil
}

// Write writes a single document to its own file
func (w *MultiFileWriter) Write(doc *Document) error {
	path := filepath.Join(w.baseDir, w.Filename(doc.Source))

	dest, err := newFileDestination(w.fs, path, w.compression)
	if err != nil {
		return fmt.Errorf("failed to create file destination: %w", err)
	}

	data, err := w.formatter.Format(doc)
	if err != nil {
		dest.Close()
		return fmt.Errorf("formatting failed: %w", err)
	}

	if _, err := dest.Write(data); err != nil {
		dest.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	return dest.Close()
}

// WriteBatch writes each document to a separate file
func (w *MultiFileWriter) WriteBatch(docs []*Document) error {
	for _, doc := range docs {
		if err := w.Write(doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", doc.Source, err)
		}
	}
	return nil
}

// Close is a no-op for multi-file writer
func (w *MultiFileWriter) Close() error {
	return nil
}

// Filename derives the output file name for a source path: the base name with
// input extensions removed and the format extension added.
func (w *MultiFileWriter) Filename(source string) string {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "scene"
	}
	ext := w.formatter.Extension()
	if w.compression {
		ext += ".gz"
	}
	return name + ext
}

// fileDestination implements the Destination interface for file output
type fileDestination struct {
	file   afero.File
	writer io.WriteCloser
	name   string
	size   int64
}

// newFileDestination creates a file destination with optional gzip
// compression. Compressed paths always end in .gz.
func newFileDestination(fsys afero.Fs, path string, compression bool) (*fileDestination, error) {
	if compression && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := fsys.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	var writer io.WriteCloser = file
	if compression {
		writer = gzip.NewWriter(file)
	}

	return &fileDestination{
		file:   file,
		writer: writer,
		name:   path,
	}, nil
}

// Write implements io.Writer
func (d *fileDestination) Write(p []byte) (n int, err error) {
	n, err = d.writer.Write(p)
	d.size += int64(n)
	return n, err
}

// Close implements io.Closer
func (d *fileDestination) Close() error {
	if d.writer != io.WriteCloser(d.file) {
		if err := d.writer.Close(); err != nil {
			d.file.Close()
			return err
		}
	}
	return d.file.Close()
}

// Name returns the destination file path
func (d *fileDestination) Name() string {
	return d.name
}

// Size returns the number of bytes written before compression
func (d *fileDestination) Size() int64 {
	return d.size
}

// NewWriter creates the appropriate writer for destination. An empty
// destination or "-" writes to stdout.
func NewWriter(fsys afero.Fs, config *WriterConfig, destination string, multiFile bool) (Writer, error) {
	if destination == "" || destination == "-" {
		return NewStdoutWriter(config.Format, config.Pretty)
	}

	if multiFile {
		return NewMultiFileWriter(fsys, config, destination)
	}

	return NewFileWriter(fsys, config, destination)
}
