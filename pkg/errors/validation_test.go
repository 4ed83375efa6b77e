package errors

import (
	"strings"
	"testing"
)

func TestValidateSequence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"upper", "ACGT", false},
		{"lower", "acgtn", false},
		{"with N", "ACNNGT", false},

		{"empty", "", true},
		{"IUPAC", "ACRT", true},
		{"whitespace", "AC GT", true},
		{"digit", "AC1T", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSequence(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSequence(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSequence) {
				t.Errorf("ValidateSequence(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateKmer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		k       int
		wantErr bool
	}{
		{"valid", "ACGTA", 5, false},
		{"lowercase", "acgta", 5, false},
		{"too short", "ACGT", 5, true},
		{"too long", "ACGTAC", 5, true},
		{"ambiguous", "ACNTA", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKmer(tt.input, tt.k)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKmer(%q, %d) error = %v, wantErr %v", tt.input, tt.k, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSampleName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "sample1", false},
		{"reference style", "ref.GRCh38", false},
		{"with colon", "PG0051-C:child", false},

		{"empty", "", true},
		{"leading dash", "-x", true},
		{"space", "my sample", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampleName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid file", "graphs/sample.badger", false},
		{"valid nested", "a/b/c.jsonl", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
