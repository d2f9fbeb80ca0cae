// Package download fetches the 20 Newsgroups archive and unpacks it into the
// directory layout the datasets package scans.
package download

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/Noofbiz/limelight/logger"
)

// DefaultURL is the location of the original corpus archive.
const DefaultURL = "http://qwone.com/~jason/20Newsgroups/20news-19997.tar.gz"

// archiveRoot is the top-level directory inside the archive.
const archiveRoot = "20_newsgroups"

var (
	// ErrUnsafePath is returned for archive entries that escape the
	// extraction directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
	// ErrMissingRoot is returned when the archive lacks 20_newsgroups/.
	ErrMissingRoot = errors.New("archive has no " + archiveRoot + " directory")
	// ErrDestinationExists is returned when dest is a file or a non-empty
	// directory.
	ErrDestinationExists = errors.New("destination already exists")
)

// Downloader fetches the corpus archive.
type Downloader struct {
	// URL defaults to DefaultURL.
	URL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
	Log      *zap.Logger
}

// Download streams the archive into dst.
func (d *Downloader) Download(ctx context.Context, dst string) (err error) {
	url := d.URL
	if url == "" {
		url = DefaultURL
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	log := logger.OrNop(d.Log)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}
	log.Debug("downloading archive", zap.String("url", url), zap.Int64("bytes", resp.ContentLength))

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	var body io.Reader = resp.Body
	if d.Progress != nil {
		bar := pb.New64(max(resp.ContentLength, 0)).
			SetTemplate(pb.Full).
			Set(pb.Bytes, true).
			SetWriter(d.Progress).
			Start()
		defer bar.Finish()
		body = bar.NewProxyReader(resp.Body)
	}
	n, err := io.Copy(f, body)
	if err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	log.Info("archive downloaded", zap.String("path", dst), zap.Int64("bytes", n))
	return nil
}

// Extract unpacks a gzipped tar archive and moves its 20_newsgroups
// directory to dest. dest must not exist or be an empty directory.
func Extract(archive, dest string) error {
	if err := checkDestination(dest); err != nil {
		return err
	}
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", parent, err)
	}
	tmp, err := os.MkdirTemp(parent, ".limelight-extract-*")
	if err != nil {
		return fmt.Errorf("create extraction dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := untar(archive, tmp); err != nil {
		return err
	}
	root := filepath.Join(tmp, archiveRoot)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return ErrMissingRoot
	}
	// checkDestination allowed an empty directory; Rename needs it gone.
	_ = os.Remove(dest)
	if err := os.Rename(root, dest); err != nil {
		return fmt.Errorf("move corpus to %s: %w", dest, err)
	}
	return nil
}

func checkDestination(dest string) error {
	info, err := os.Stat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dest, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return fmt.Errorf("read %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s is not empty", ErrDestinationExists, dest)
	}
	return nil
}

func untar(archive, dir string) error {
	fh, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer fh.Close()

	zr, err := gzip.NewReader(fh)
	if err != nil {
		return fmt.Errorf("gunzip %s: %w", archive, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive %s: %w", archive, err)
		}
		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("mkdir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr); err != nil {
				return err
			}
		}
	}
}

func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Prepare downloads the archive to a temporary file, extracts it into dest
// and removes the archive.
func (d *Downloader) Prepare(ctx context.Context, dest string) error {
	if err := checkDestination(dest); err != nil {
		return err
	}
	f, err := os.CreateTemp("", "20news-*.tar.gz")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	if err := d.Download(ctx, name); err != nil {
		return err
	}
	if err := Extract(name, dest); err != nil {
		return err
	}
	logger.OrNop(d.Log).Info("corpus ready", zap.String("dir", dest))
	return nil
}
