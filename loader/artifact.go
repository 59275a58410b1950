package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/pyx/lang"
)

// Marker identifies a compiled artifact and its format version.
var Marker = [4]byte{'p', 'y', 'x', 0x01}

// CacheTag is inserted between a module's base name and the artifact
// extension, so artifacts of incompatible formats never collide.
const CacheTag = "pyx-1"

// headerSize is the marker, the int64 timestamp, and the uint32 length.
const headerSize = len(Marker) + 8 + 4

// Artifact is a decoded compiled artifact.
type Artifact struct {
	// Stamp is the time the artifact was written, in whole seconds.
	Stamp time.Time
	Unit  *lang.Unit
}

// Fresh reports whether a is valid for a source last modified at mtime.
func (a *Artifact) Fresh(mtime time.Time) bool {
	return a.Stamp.Unix() >= mtime.Unix()
}

// EncodeArtifact writes the artifact layout for u stamped at stamp to w:
//
//	marker[4] | stamp int64 LE | length uint32 LE | zstd(msgpack(u))
func EncodeArtifact(w io.Writer, stamp time.Time, u *lang.Unit) error {
	raw, err := msgpack.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode unit: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	payload := enc.EncodeAll(raw, nil)

	var hdr [headerSize]byte

	copy(hdr[:], Marker[:])
	binary.LittleEndian.PutUint64(hdr[4:], uint64(stamp.Unix())) //nolint:gosec
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(payload))) //nolint:gosec

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	_, err = w.Write(payload)

	return err
}

// DecodeArtifact parses data in the layout written by [EncodeArtifact].
// Every malformation is reported as [ErrCorrupt].
func DecodeArtifact(data []byte) (*Artifact, error) {
	if len(data) < headerSize {
		return nil, ErrCorrupt.Wrapf("short header: %d bytes", len(data))
	}

	if !bytes.Equal(data[:4], Marker[:]) {
		return nil, ErrCorrupt.Wrapf("bad marker %q", data[:4])
	}

	stamp := int64(binary.LittleEndian.Uint64(data[4:])) //nolint:gosec
	size := binary.LittleEndian.Uint32(data[12:])

	payload := data[headerSize:]
	if uint64(len(payload)) != uint64(size) {
		return nil, ErrCorrupt.Wrapf("payload length %d, header says %d", len(payload), size)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, ErrCorrupt.Wrap(err)
	}

	var u lang.Unit
	if err := msgpack.Unmarshal(raw, &u); err != nil {
		return nil, ErrCorrupt.Wrap(err)
	}

	return &Artifact{Stamp: time.Unix(stamp, 0), Unit: &u}, nil
}

// ReadArtifact reads and decodes the artifact at path. A missing file is
// reported with an error matching [fs.ErrNotExist].
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return DecodeArtifact(data)
}

// WriteArtifact atomically replaces the artifact at path. The directory is
// created if needed.
func WriteArtifact(path string, stamp time.Time, u *lang.Unit) (err error) {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := EncodeArtifact(tmp, stamp, u); err != nil {
		return errors.Join(err, tmp.Close())
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
