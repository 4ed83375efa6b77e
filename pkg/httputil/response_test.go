package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/cortexwalk/pkg/errors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusCreated, map[string]int{"n": 3}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"n":3}` {
		t.Errorf("body = %s", got)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errors.Code
		wantMsg    string
	}{
		{"not found", errors.New(errors.ErrCodeKmerNotFound, "k-mer %s not in graph", "ACGTA"), 404, errors.ErrCodeKmerNotFound, "k-mer ACGTA not in graph"},
		{"bad input", errors.New(errors.ErrCodeInvalidInput, "no seeds"), 400, errors.ErrCodeInvalidInput, "no seeds"},
		{"wrapped", fmt.Errorf("walk: %w", errors.New(errors.ErrCodeUnknownRule, "rule x")), 400, errors.ErrCodeUnknownRule, "rule x"},
		{"timeout", errors.New(errors.ErrCodeTimeout, "deadline"), 504, errors.ErrCodeTimeout, "deadline"},
		{"plain", fmt.Errorf("/var/db/graph: permission denied"), 500, errors.ErrCodeInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if got := WriteError(rec, tt.err); got != tt.wantStatus {
				t.Errorf("WriteError() = %d, want %d", got, tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != tt.wantMsg {
				t.Errorf("body = %+v, want %s %q", body.Error, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Seeds []string `json:"seeds"`
	}
	tests := []struct {
		name    string
		body    string
		max     int64
		wantErr bool
	}{
		{"valid", `{"seeds":["ACGTA"]}`, 0, false},
		{"unknown field", `{"seed":"ACGTA"}`, 0, true},
		{"malformed", `{"seeds":`, 0, true},
		{"two values", `{"seeds":[]} {}`, 0, true},
		{"too large", `{"seeds":["ACGTAACGTAACGTA"]}`, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v req
			err := DecodeJSON(r, &v, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("DecodeJSON() code = %v, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func ExampleWriteError() {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", "NA12878"))
	fmt.Println(status)
	fmt.Print(rec.Body.String())
	// Output:
	// 404
	// {"error":{"code":"SAMPLE_NOT_FOUND","message":"sample \"NA12878\" not in graph"}}
}
