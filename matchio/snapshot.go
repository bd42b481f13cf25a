package matchio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/trackgo/blobstore"
	"github.com/hupe1980/trackgo/codec"
	"github.com/hupe1980/trackgo/model"
)

// Compression names the compression applied to a snapshot payload.
type Compression string

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = "none"
	// CompressionZstd compresses with zstandard.
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 compresses with lz4.
	CompressionLZ4 Compression = "lz4"
)

var (
	snapshotMagic   = [4]byte{'T', 'G', 'S', 'N'}
	snapshotVersion = uint8(1)
)

// WithCompression selects the snapshot payload compression (default zstd).
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

type snapshotPayload struct {
	Tracks model.TracksMap `json:"tracks"`
}

// WriteSnapshot writes a framed dump of tracks to w.
//
// Layout: magic, version, codec name, compression name, then the encoded
// payload. The header fields make the file self-describing.
func WriteSnapshot(w io.Writer, tracks model.TracksMap, optFns ...Option) error {
	opts := applyOptions(optFns)
	if opts.compression == "" {
		opts.compression = CompressionZstd
	}

	if _, err := w.Write(snapshotMagic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{snapshotVersion}); err != nil {
		return err
	}
	if err := writeString(w, opts.codec.Name()); err != nil {
		return err
	}
	if err := writeString(w, string(opts.compression)); err != nil {
		return err
	}

	data, err := opts.codec.Marshal(snapshotPayload{Tracks: tracks})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	switch opts.compression {
	case CompressionNone:
		_, err = w.Write(data)
		return err
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := zw.Write(data); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		if _, err := lw.Write(data); err != nil {
			_ = lw.Close()
			return err
		}
		return lw.Close()
	default:
		return fmt.Errorf("unknown snapshot compression %q", opts.compression)
	}
}

// ReadSnapshot reads a framed track dump from r.
func ReadSnapshot(r io.Reader) (model.TracksMap, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("bad snapshot magic %q", magic)
	}
	var version [1]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, err
	}
	if version[0] != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version[0])
	}

	codecName, err := readString(r)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("unknown snapshot codec %q", codecName)
	}
	compression, err := readString(r)
	if err != nil {
		return nil, err
	}

	var payload io.Reader
	switch Compression(compression) {
	case CompressionNone:
		payload = r
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		payload = zr
	case CompressionLZ4:
		payload = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown snapshot compression %q", compression)
	}

	data, err := io.ReadAll(payload)
	if err != nil {
		return nil, err
	}
	var p snapshotPayload
	if err := c.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return p.Tracks, nil
}

// SaveSnapshot writes a track snapshot to the store under name.
func SaveSnapshot(ctx context.Context, store blobstore.Store, name string, tracks model.TracksMap, optFns ...Option) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(w, tracks, optFns...); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// LoadSnapshot reads a track snapshot from the store.
func LoadSnapshot(ctx context.Context, store blobstore.Store, name string) (model.TracksMap, error) {
	r, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return ReadSnapshot(r)
}

func writeString(w io.Writer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("header string too long: %d", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return "", err
	}
	buf := make([]byte, n[0])
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
