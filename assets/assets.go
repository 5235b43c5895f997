// Package assets loads and stores the encoded animation streams described by
// a manifest.  Streams may be stored zstd compressed, and may be protected by
// an xxhash checksum recorded in the manifest entry.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/klauspost/compress/zstd"

	"github.com/TeamNorCal/ledanim/model"
)

// CompressedSuffix marks stream files that hold zstd compressed data
const CompressedSuffix = ".zst"

// Checksum is the hex form of the xxhash64 of a stream, as stored in a
// manifest entry
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Load reads the stream for the manifest entry from the directory holding the
// manifest, decompressing and checking it as needed
func Load(dir string, entry *model.Entry) (data []byte, err errors.Error) {
	fn := filepath.Join(dir, entry.File)

	data, errGo := os.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}

	if strings.HasSuffix(entry.File, CompressedSuffix) {
		if data, err = decompress(data); err != nil {
			return nil, err.With("file", fn)
		}
	}

	if len(entry.Checksum) != 0 {
		if err = verify(data, entry.Checksum); err != nil {
			return nil, err.With("file", fn).With("name", entry.Name)
		}
	}
	return data, nil
}

// Save writes data as the stream for entry, within dir.  When compress is set
// the file is zstd compressed and given the .zst suffix.  The returned entry
// carries the file name actually used and the checksum of data
func Save(dir string, entry model.Entry, data []byte, compress bool) (saved model.Entry, err errors.Error) {
	entry.File = strings.TrimSuffix(entry.File, CompressedSuffix)
	contents := data
	if compress {
		entry.File += CompressedSuffix
		if contents, err = compressData(data); err != nil {
			return entry, err
		}
	}
	entry.Checksum = Checksum(data)

	fn := filepath.Join(dir, entry.File)
	if errGo := os.MkdirAll(filepath.Dir(fn), 0755); errGo != nil {
		return entry, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if errGo := os.WriteFile(fn, contents, 0644); errGo != nil {
		return entry, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	return entry, nil
}

func verify(data []byte, checksum string) errors.Error {
	expected, errGo := strconv.ParseUint(checksum, 16, 64)
	if errGo != nil {
		return errors.Wrap(errGo).With("checksum", checksum).With("stack", stack.Trace().TrimRuntime())
	}
	if actual := xxhash.Sum64(data); actual != expected {
		return errors.New("animation stream checksum mismatch").
			With("expected", checksum).
			With("actual", fmt.Sprintf("%016x", actual)).
			With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

func compressData(data []byte) ([]byte, errors.Error) {
	enc, errGo := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, errors.Error) {
	dec, errGo := zstd.NewReader(nil)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	defer dec.Close()

	out, errGo := dec.DecodeAll(data, nil)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return out, nil
}
