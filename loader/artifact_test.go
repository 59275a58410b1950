package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pyx/lang"
)

func testUnit() *lang.Unit {
	return &lang.Unit{
		Name:     "page",
		Filename: "src/page.pyx",
		Source:   "x = a()(b()())\n",
		Symbols:  []string{"x"},
		Imports:  []string{"ui.nav"},
		Hash:     lang.Hash([]byte("x = <a><b/></a>\n")),
	}
}

// TestArtifact_Layout verifies the header fields and payload round trip.
func TestArtifact_Layout(t *testing.T) {
	stamp := time.Unix(1_700_000_000, 0)

	var buf bytes.Buffer
	if err := EncodeArtifact(&buf, stamp, testUnit()); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()

	if !bytes.Equal(data[:4], []byte{'p', 'y', 'x', 0x01}) {
		t.Errorf("marker = %q", data[:4])
	}

	if got := binary.LittleEndian.Uint64(data[4:12]); got != uint64(stamp.Unix()) {
		t.Errorf("stamp = %d, want %d", got, stamp.Unix())
	}

	if got := binary.LittleEndian.Uint32(data[12:16]); int(got) != len(data)-headerSize {
		t.Errorf("length = %d, want %d", got, len(data)-headerSize)
	}

	a, err := DecodeArtifact(data)
	if err != nil {
		t.Fatal(err)
	}

	if !a.Stamp.Equal(stamp) {
		t.Errorf("Stamp = %v, want %v", a.Stamp, stamp)
	}

	if diff := cmp.Diff(testUnit(), a.Unit); diff != "" {
		t.Errorf("Unit mismatch (-want +got):\n%s", diff)
	}
}

// TestArtifact_Fresh verifies the freshness comparison is in whole seconds.
func TestArtifact_Fresh(t *testing.T) {
	a := &Artifact{Stamp: time.Unix(100, 0)}

	tests := []struct {
		mtime time.Time
		want  bool
	}{
		{time.Unix(99, 0), true},
		{time.Unix(100, 0), true},
		{time.Unix(100, 999_999_999), true},
		{time.Unix(101, 0), false},
	}

	for _, tt := range tests {
		if got := a.Fresh(tt.mtime); got != tt.want {
			t.Errorf("Fresh(%v) = %v, want %v", tt.mtime, got, tt.want)
		}
	}
}

// TestArtifact_Corrupt verifies every malformation is reported as ErrCorrupt.
func TestArtifact_Corrupt(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeArtifact(&buf, time.Unix(1, 0), testUnit()); err != nil {
		t.Fatal(err)
	}

	good := buf.Bytes()

	mutate := func(f func([]byte) []byte) []byte {
		return f(bytes.Clone(good))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", good[:headerSize-1]},
		{"bad marker", mutate(func(b []byte) []byte { b[3] = 0x02; return b })},
		{"truncated payload", good[:len(good)-1]},
		{"trailing bytes", append(bytes.Clone(good), 0)},
		{"garbage payload", mutate(func(b []byte) []byte {
			for i := headerSize; i < len(b); i++ {
				b[i] = 0xff
			}

			return b
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeArtifact(tt.data); !errors.Is(err, ErrCorrupt) {
				t.Errorf("DecodeArtifact() error = %v, want %v", err, ErrCorrupt)
			}
		})
	}
}

// TestWriteArtifact verifies writes create directories and leave no
// temporary files behind.
func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "__pycache__", "page.pyx-1.pyc")

	if _, err := ReadArtifact(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadArtifact(missing) error = %v", err)
	}

	for _, stamp := range []int64{10, 20} {
		if err := WriteArtifact(path, time.Unix(stamp, 0), testUnit()); err != nil {
			t.Fatal(err)
		}
	}

	a, err := ReadArtifact(path)
	if err != nil {
		t.Fatal(err)
	}

	if a.Stamp.Unix() != 20 {
		t.Errorf("Stamp = %d, want 20", a.Stamp.Unix())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("cache directory holds %d entries, want 1", len(entries))
	}
}
