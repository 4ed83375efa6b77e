package links

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

// jsonlHeader is the first line of a links file.
type jsonlHeader struct {
	Source string `json:"source"`
	Sample string `json:"sample"`
}

// jsonlLine is one link; several lines may share an anchor.
type jsonlLine struct {
	Kmer     string `json:"kmer"`
	Forward  bool   `json:"forward"`
	Path     string `json:"path"`
	Coverage int    `json:"coverage"`
}

// LoadJSONL reads a links file: a header object naming the source and
// sample, followed by one link object per line. Anchors may be given in
// either orientation.
func LoadJSONL(path string) (*MemSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	src, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// ReadJSONL is [LoadJSONL] over a reader.
func ReadJSONL(r io.Reader) (*MemSource, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var src *MemSource
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if src == nil {
			var h jsonlHeader
			if err := json.Unmarshal(line, &h); err != nil {
				return nil, fmt.Errorf("line %d: header: %w", lineNo, err)
			}
			if h.Source == "" {
				return nil, fmt.Errorf("line %d: header missing source", lineNo)
			}
			src = NewMemSource(h.Source, h.Sample)
			continue
		}
		var l jsonlLine
		if err := json.Unmarshal(line, &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if l.Kmer == "" || l.Path == "" || !kmer.IsACGT(l.Path) {
			return nil, fmt.Errorf("line %d: invalid link %q/%q", lineNo, l.Kmer, l.Path)
		}
		src.Add(l.Kmer, l.Forward, l.Path, l.Coverage)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("empty links file")
	}
	return src, nil
}
