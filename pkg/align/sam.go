package align

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/exascience/elprep/v5/sam"
)

const (
	flagUnmapped = 0x4
	flagReverse  = 0x10
)

// ParseSAM reads the mapped records of a SAM stream. Header lines and
// unmapped records are skipped.
func ParseSAM(r io.Reader) ([]Hit, error) {
	var hits []Hit
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || text[0] == '@' {
			continue
		}
		h, mapped, err := parseRecord(text)
		if err != nil {
			return nil, fmt.Errorf("sam line %d: %w", line, err)
		}
		if mapped {
			hits = append(hits, h)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

func parseRecord(text string) (Hit, bool, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 11 {
		return Hit{}, false, fmt.Errorf("%d fields, want at least 11", len(fields))
	}
	flag, err := strconv.Atoi(fields[1])
	if err != nil {
		return Hit{}, false, fmt.Errorf("flag: %w", err)
	}
	if flag&flagUnmapped != 0 || fields[2] == "*" {
		return Hit{}, false, nil
	}
	pos, err := strconv.Atoi(fields[3])
	if err != nil {
		return Hit{}, false, fmt.Errorf("pos: %w", err)
	}
	mapq, err := strconv.Atoi(fields[4])
	if err != nil {
		return Hit{}, false, fmt.Errorf("mapq: %w", err)
	}
	cigar, err := ParseCigar(fields[5])
	if err != nil {
		return Hit{}, false, err
	}

	h := Hit{
		RefName: fields[2],
		Start:   pos,
		End:     pos + int(sam.ReferenceLengthFromCigar(cigar)) - 1,
		Reverse: flag&flagReverse != 0,
		Cigar:   cigar,
		MapQ:    mapq,
		Seq:     fields[9],
	}
	for _, tag := range fields[11:] {
		if v, ok := strings.CutPrefix(tag, "NM:i:"); ok {
			if h.NM, err = strconv.Atoi(v); err != nil {
				return Hit{}, false, fmt.Errorf("NM: %w", err)
			}
		}
	}
	return h, true, nil
}
