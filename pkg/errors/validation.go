package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSequence validates a nucleotide sequence supplied by a user.
// Only A, C, G, T and N are accepted (case-insensitive).
func ValidateSequence(seq string) error {
	if seq == "" {
		return New(ErrCodeInvalidSequence, "sequence cannot be empty")
	}
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			return New(ErrCodeInvalidSequence, "invalid base %q at position %d", seq[i], i)
		}
	}
	return nil
}

// ValidateKmer validates a k-mer of the expected length.
// Unlike [ValidateSequence], ambiguous bases are rejected because they have
// no representation in the graph.
func ValidateKmer(kmer string, k int) error {
	if len(kmer) != k {
		return New(ErrCodeInvalidSequence, "k-mer %q has length %d, want %d", kmer, len(kmer), k)
	}
	for i := 0; i < len(kmer); i++ {
		switch kmer[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return New(ErrCodeInvalidSequence, "k-mer %q contains non-ACGT base at position %d", kmer, i)
		}
	}
	return nil
}

// sampleNameRegex matches sample names as they appear in graph headers.
var sampleNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateSampleName validates a sample (color) name.
func ValidateSampleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sample name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "sample name too long (max 256 characters)")
	}
	if !sampleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid sample name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path supplied through an API request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
