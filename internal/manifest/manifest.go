// Package manifest reads the list of archive source URLs and derives the
// short identifier that names each source's scratch artifact.
package manifest

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Source is one remote archive location from the manifest.
type Source struct {
	URL      string
	ID       string // short identifier, used in logs and the artifact name
	Artifact string // scratch filename, ID plus the configured suffix
}

// ReadError means the manifest itself could not be read. Unlike per-source
// failures this aborts the whole run.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read manifest %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IDExtractor derives a source ID from a fixed byte range of the URL. The
// defaults match the GES DISC OPeNDAP layout where bytes 108..116 hold the
// file's YYYYMMDD date. URLs too short for the range (or yielding only
// whitespace) fall back to a short content hash so a malformed manifest line
// still gets a usable, unique artifact name.
type IDExtractor struct {
	Offset int
	Length int
	Suffix string
}

// Extract returns the short identifier for url.
func (e IDExtractor) Extract(url string) string {
	begin := e.Offset
	if begin > len(url) {
		begin = len(url)
	}
	limit := e.Offset + e.Length
	if limit > len(url) {
		limit = len(url)
	}
	if id := strings.TrimSpace(url[begin:limit]); id != "" {
		return id
	}
	return shortHash(url)
}

// shortHash is the fallback identifier for URLs the positional extractor
// cannot handle.
func shortHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:4])
}

// Load reads the manifest at path. The first line is a header and is
// discarded; every following non-blank line is one source URL. The file is
// read fully before any source processing begins.
func Load(path string, ex IDExtractor) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var sources []Source
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if header {
			header = false
			continue
		}
		if line == "" {
			continue
		}
		id := ex.Extract(line)
		sources = append(sources, Source{
			URL:      line,
			ID:       id,
			Artifact: id + ex.Suffix,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return sources, nil
}
