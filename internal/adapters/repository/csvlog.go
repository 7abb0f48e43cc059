package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"sync"

	"github.com/okian/apexstats/internal/domain/model"
	"github.com/okian/apexstats/pkg/logger"
)

// File permission and scan constants.
const (
	logFilePermission = 0o644
	scanChunk         = 32 << 10
)

// CSVLog is a Store backed by an append-only CSV file.
//
// Each Append issues a single write on a file opened with O_APPEND and
// syncs it, so a row is either fully present or not at all. A trailing
// fragment that does not end on a record boundary, left by an interrupted
// write, is never yielded by Records and is cut off by the next Append.
// Notes may span lines, so a boundary is a newline outside quotes.
type CSVLog struct {
	path   string
	logger logger.Logger

	mu       sync.Mutex // serialises appends within the process
	boundary int64      // known record boundary; scans resume here
}

// NewCSVLog returns a CSVLog writing to path. The file is created on the
// first Append.
func NewCSVLog(path string, opts ...Option) *CSVLog {
	o := buildOptions(opts)
	return &CSVLog{path: path, logger: o.logger}
}

// Path returns the file backing the log.
func (l *CSVLog) Path() string { return l.path }

// Append writes o as one CSV row, preceded by the header when the file is
// new or empty.
func (l *CSVLog) Append(ctx context.Context, o model.Observation) error {
	const op = "csvlog.append"
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, logFilePermission)
	if err != nil {
		return ioError(op, l.path, err)
	}
	defer func() { _ = f.Close() }()

	size, complete, err := completeSize(f, l.boundary)
	if err != nil {
		return ioError(op, l.path, err)
	}
	l.boundary = complete
	if complete < size {
		l.logger.Warn(ctx, "discarding partial row left by an interrupted append",
			logger.String("path", l.path),
			logger.Int("bytes", int(size-complete)),
		)
		if err := f.Truncate(complete); err != nil {
			return ioError(op, l.path, err)
		}
	}

	if complete == 0 {
		_ = w.Write(csvHeader)
	}
	_ = w.Write(encodeRow(o))
	w.Flush()
	if err := w.Error(); err != nil {
		return ioError(op, l.path, err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return ioError(op, l.path, err)
	}
	if err := f.Sync(); err != nil {
		return ioError(op, l.path, err)
	}
	l.boundary = complete + int64(buf.Len())
	return nil
}

// Records streams the rows of the log in file order. A missing file is an
// empty log.
func (l *CSVLog) Records(ctx context.Context) iter.Seq2[model.Observation, error] {
	const op = "csvlog.records"
	return func(yield func(model.Observation, error) bool) {
		f, err := os.Open(l.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			yield(model.Observation{}, ioError(op, l.path, err))
			return
		}
		defer func() { _ = f.Close() }()

		l.mu.Lock()
		from := l.boundary
		l.mu.Unlock()

		_, complete, err := completeSize(f, from)
		if err != nil {
			yield(model.Observation{}, ioError(op, l.path, err))
			return
		}

		l.mu.Lock()
		l.boundary = max(l.boundary, complete)
		l.mu.Unlock()

		r := csv.NewReader(io.NewSectionReader(f, 0, complete))
		r.ReuseRecord = true

		header, err := r.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(model.Observation{}, corruptError(op, l.path, parseErrorLine(err), err))
			return
		}
		cols, err := newCSVColumns(header)
		if err != nil {
			yield(model.Observation{}, corruptError(op, l.path, 1, err))
			return
		}

		for {
			if err := ctx.Err(); err != nil {
				yield(model.Observation{}, err)
				return
			}
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(model.Observation{}, corruptError(op, l.path, parseErrorLine(err), err))
				return
			}
			o, err := cols.decode(row)
			if err != nil {
				line, _ := r.FieldPos(0)
				yield(model.Observation{}, corruptError(op, l.path, line, err))
				return
			}
			if !yield(o, nil) {
				return
			}
		}
	}
}

// Close is a no-op; the file is opened per operation.
func (l *CSVLog) Close() error { return nil }

// completeSize returns the file size and the length of its prefix that ends
// on a record boundary: a newline outside any quoted field. Scanning starts
// at from, which must be a boundary; a from beyond the end of the file means
// the file was replaced and the scan restarts at zero.
//
// Quotes only open and close quoted fields in rows written by csv.Writer, and
// an escaped quote toggles twice, so tracking parity is enough.
func completeSize(f *os.File, from int64) (size, complete int64, err error) {
	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}
	size = info.Size()
	if from > size {
		from = 0
	}

	complete = from
	quoted := false
	buf := make([]byte, scanChunk)
	for off := from; off < size; {
		n, err := f.ReadAt(buf[:min(int64(len(buf)), size-off)], off)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, 0, err
		}
		if n == 0 {
			break
		}
		for i, b := range buf[:n] {
			switch b {
			case '"':
				quoted = !quoted
			case '\n':
				if !quoted {
					complete = off + int64(i) + 1
				}
			}
		}
		off += int64(n)
	}
	return size, complete, nil
}

func parseErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}
