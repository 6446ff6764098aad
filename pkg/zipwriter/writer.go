// Package zipwriter streams files from a filesystem into a zip container.
//
// A Writer receives one Add call per entry, in the order entries should
// appear in the archive, followed by a single Close. It does not own the
// underlying io.Writer: the caller closes (and on failure removes) the
// destination file.
package zipwriter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/sdejongh/dirzip/pkg/models"
	"github.com/sdejongh/dirzip/pkg/ratelimit"
)

// DefaultBufferSize is the copy buffer used when Options.BufferSize is unset
const DefaultBufferSize = 64 * 1024

// Options configures a Writer
type Options struct {
	// Method is the compression applied to every entry (default deflate)
	Method models.CompressionMethod

	// Level is the compression level. For deflate it is a flate level
	// (-2..9, where -1 selects flate's default); for zstd it is a zstd level
	// (1..22). Zero selects best compression for deflate and the encoder
	// default for zstd.
	Level int

	// Fs is the filesystem sources are read from (default OS filesystem)
	Fs afero.Fs

	// Limiter throttles source reads; nil means unlimited
	Limiter *ratelimit.Limiter

	// BufferSize is the copy buffer size
	BufferSize int
}

// Writer adds files to a zip container
type Writer struct {
	zw     *zip.Writer
	fs     afero.Fs
	method uint16
	lim    *ratelimit.Limiter
	buf    []byte
	closed bool
}

// New starts a zip container on dst
func New(dst io.Writer, opts Options) (*Writer, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}

	zw := zip.NewWriter(dst)
	method, err := register(zw, opts.Method, opts.Level)
	if err != nil {
		return nil, err
	}

	return &Writer{
		zw:     zw,
		fs:     opts.Fs,
		method: method,
		lim:    opts.Limiter,
		buf:    make([]byte, opts.BufferSize),
	}, nil
}

// register installs the compressor for method and returns its zip method id
func register(zw *zip.Writer, method models.CompressionMethod, level int) (uint16, error) {
	switch method {
	case "", models.CompressDeflate:
		if level == 0 {
			level = flate.BestCompression
		}
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return 0, fmt.Errorf("invalid deflate level %d", level)
		}
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
		return zip.Deflate, nil

	case models.CompressStore:
		return zip.Store, nil

	case models.CompressZstd:
		encLevel := zstd.SpeedDefault
		if level != 0 {
			if level < 1 || level > 22 {
				return 0, fmt.Errorf("invalid zstd level %d", level)
			}
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(zstd.WithEncoderLevel(encLevel)))
		return zstd.ZipMethodWinZip, nil

	default:
		return 0, fmt.Errorf("unsupported compression method: %s", method)
	}
}

// Add streams the file at sourcePath into the archive as name.
// A source that no longer exists is reported as a *Warning with
// CodeNotExist; nothing is written for it.
func (w *Writer) Add(ctx context.Context, name, sourcePath string, modified time.Time) error {
	if w.closed {
		return errors.New("zipwriter: add after close")
	}
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := w.fs.Open(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Warning{Code: CodeNotExist, Path: sourcePath, Err: err}
		}
		return fmt.Errorf("failed to open %s: %w", sourcePath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", sourcePath, err)
	}

	header := &zip.FileHeader{
		Name:     name,
		Method:   w.method,
		Modified: modified,
	}
	header.SetMode(info.Mode().Perm())

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}

	if _, err := io.CopyBuffer(dst, ratelimit.NewReader(ctx, src, w.lim), w.buf); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// Close writes the central directory with an optional archive comment
func (w *Writer) Close(comment string) error {
	if w.closed {
		return nil
	}
	w.closed = true

	if comment != "" {
		if err := w.zw.SetComment(comment); err != nil {
			return fmt.Errorf("failed to set archive comment: %w", err)
		}
	}
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func validName(name string) error {
	switch {
	case name == "":
		return errors.New("zipwriter: empty entry name")
	case strings.Contains(name, `\`):
		return fmt.Errorf("zipwriter: entry name %q must use forward slashes", name)
	case strings.HasPrefix(name, "/"):
		return fmt.Errorf("zipwriter: entry name %q must be relative", name)
	}
	return nil
}
