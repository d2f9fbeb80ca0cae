package vectorizer

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/Noofbiz/limelight/internal/atomicfile"
	"github.com/klauspost/compress/zstd"
)

// artifactVersion is incremented when the on-disk vectorizer format changes.
const artifactVersion = 1

var artifactMagic = []byte("LLVEC\x00")

type artifact struct {
	Version    int
	Vectorizer Vectorizer
}

func init() {
	gob.Register(&Tfidf{})
	gob.Register(&FeatureSelected{})
}

// Dump writes v to path as a zstd-compressed gob stream. The write is atomic:
// a temp file is filled next to path and renamed over it.
func Dump(path string, v Vectorizer) error {
	if path == "" {
		return fmt.Errorf("empty artifact path")
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		return encodeArtifact(w, v)
	})
}

func encodeArtifact(w io.Writer, v Vectorizer) error {
	if _, err := w.Write(artifactMagic); err != nil {
		return fmt.Errorf("write artifact header: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(&artifact{Version: artifactVersion, Vectorizer: v}); err != nil {
		zw.Close()
		return fmt.Errorf("encode vectorizer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd stream: %w", err)
	}
	return nil
}

// Load reads a vectorizer written by Dump. Any unreadable or
// version-mismatched content fails with ErrCorruptArtifact.
func Load(path string) (Vectorizer, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer fh.Close()

	v, err := decodeArtifact(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, path, err)
	}
	return v, nil
}

func decodeArtifact(r io.Reader) (Vectorizer, error) {
	head := make([]byte, len(artifactMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(head, artifactMagic) {
		return nil, fmt.Errorf("bad magic %q", head)
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var a artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("version mismatch: artifact=%d expected=%d", a.Version, artifactVersion)
	}
	if a.Vectorizer == nil {
		return nil, fmt.Errorf("artifact holds no vectorizer")
	}
	return a.Vectorizer, nil
}
