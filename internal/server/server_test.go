package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/cortexwalk/pkg/buildinfo"
	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/config"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/httputil"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/pipeline"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

const chainSeq = "ATGCAAGTC"

func newTestServer(t *testing.T, metrics http.Handler) *httptest.Server {
	t.Helper()
	b := store.NewBuilder(5, []string{"sample", "ref"})
	if err := b.AddSequence(0, chainSeq); err != nil {
		t.Fatalf("AddSequence() error = %v", err)
	}
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(b.MemStore(), "chain", nil, nil, quiet)
	srv := New(Options{
		Runner:     runner,
		Defaults:   config.TraversalConfig{Colors: []string{"sample"}, Rule: "contig"},
		References: []caller.Reference{{Name: "ref"}},
		Caller:     config.CallerConfig{Workers: 2},
		Metrics:    metrics,
		Logger:     quiet,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, v any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, nil)

	var health map[string]string
	if code := getJSON(t, ts.URL+"/healthz", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Errorf("/healthz = %d %v", code, health)
	}

	var info buildinfo.Info
	if code := getJSON(t, ts.URL+"/version", &info); code != http.StatusOK || info.Version != buildinfo.Version {
		t.Errorf("/version = %d %+v", code, info)
	}

	if code := getJSON(t, ts.URL+"/metrics", nil); code != http.StatusNotFound {
		t.Errorf("/metrics without metrics = %d, want 404", code)
	}
}

func TestSamples(t *testing.T) {
	ts := newTestServer(t, nil)

	var resp SamplesResponse
	if code := getJSON(t, ts.URL+"/api/v1/samples", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.KmerSize != 5 || len(resp.Samples) != 2 || resp.Samples[0] != "sample" || resp.Samples[1] != "ref" {
		t.Errorf("samples = %+v", resp)
	}
}

func TestKmer(t *testing.T) {
	ts := newTestServer(t, nil)

	var resp KmerResponse
	if code := getJSON(t, ts.URL+"/api/v1/kmers/gcaag", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Kmer != "GCAAG" || resp.Canonical != "CTTGC" || !resp.Flipped {
		t.Errorf("kmer = %+v, want GCAAG flipped from CTTGC", resp)
	}
	if len(resp.Colors) != 2 || resp.Colors[0].Coverage != 1 || resp.Colors[1].Coverage != 0 {
		t.Errorf("colors = %+v", resp.Colors)
	}

	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/api/v1/kmers/TTTTG", http.StatusNotFound, errors.ErrCodeKmerNotFound},
		{"/api/v1/kmers/ACG", http.StatusBadRequest, errors.ErrCodeInvalidSequence},
		{"/api/v1/kmers/ACGNA", http.StatusBadRequest, errors.ErrCodeInvalidSequence},
	}
	for _, tt := range tests {
		var body httputil.ErrorBody
		if code := getJSON(t, ts.URL+tt.path, &body); code != tt.status || body.Error.Code != tt.code {
			t.Errorf("GET %s = %d %s, want %d %s", tt.path, code, body.Error.Code, tt.status, tt.code)
		}
	}
}

func TestWalk(t *testing.T) {
	ts := newTestServer(t, nil)

	var resp WalkResponse
	code := postJSON(t, ts.URL+"/api/v1/walk", `{"seeds":["GCAAG"],"formats":["fasta","dot"]}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Found || len(resp.Contigs) != 1 || resp.Contigs[0].Sequence != chainSeq {
		t.Errorf("walk = %+v", resp)
	}
	if resp.Artifacts["fasta"] != ">0\n"+chainSeq+"\n" {
		t.Errorf("fasta artifact = %q", resp.Artifacts["fasta"])
	}
	if !strings.HasPrefix(resp.Artifacts["dot"], "digraph") {
		t.Errorf("dot artifact = %q", resp.Artifacts["dot"])
	}
	if resp.Stats.Vertices != 5 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestWalkErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed", `{"seeds":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"seed":"GCAAG"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no seeds", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"absent seed", `{"seeds":["TTTTG"]}`, http.StatusNotFound, errors.ErrCodeKmerNotFound},
		{"unknown sample", `{"seeds":["GCAAG"],"traversal":{"colors":["nobody"]}}`, http.StatusNotFound, errors.ErrCodeSampleNotFound},
		{"unknown rule", `{"seeds":["GCAAG"],"traversal":{"rule":"sideways"}}`, http.StatusBadRequest, errors.ErrCodeUnknownRule},
		{"absolute previous", `{"seeds":["GCAAG"],"previous":"/etc/passwd"}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"escaping previous", `{"seeds":["GCAAG"],"previous":"../walk.json"}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"missing previous", `{"seeds":["GCAAG"],"previous":"no-such-walk.json"}`, http.StatusNotFound, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body httputil.ErrorBody
			if code := postJSON(t, ts.URL+"/api/v1/walk", tt.body, &body); code != tt.status || body.Error.Code != tt.code {
				t.Errorf("POST walk = %d %s, want %d %s", code, body.Error.Code, tt.status, tt.code)
			}
		})
	}
}

func TestCall(t *testing.T) {
	ts := newTestServer(t, nil)

	var resp CallResponse
	if code := postJSON(t, ts.URL+"/api/v1/call", `{"sample":"sample"}`, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Summary.Novels != 5 {
		t.Errorf("Novels = %d, want 5", resp.Summary.Novels)
	}
	if resp.Summary.Contigs == 0 || len(resp.Contigs) != resp.Summary.Contigs {
		t.Errorf("contigs = %d listed, %d in summary", len(resp.Contigs), resp.Summary.Contigs)
	}
	if len(resp.Calls) != 0 || resp.Error != "" {
		t.Errorf("calls = %+v, error %q; want none without aligners", resp.Calls, resp.Error)
	}

	var one CallResponse
	if code := postJSON(t, ts.URL+"/api/v1/call", `{"sample":"sample","novel":["gcaag"]}`, &one); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if one.Summary.Novels != 1 {
		t.Errorf("Novels = %d, want 1", one.Summary.Novels)
	}
}

func TestCallErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"no sample", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown sample", `{"sample":"nobody"}`, http.StatusNotFound, errors.ErrCodeSampleNotFound},
		{"bad kmer", `{"sample":"sample","novel":["ACG"]}`, http.StatusBadRequest, errors.ErrCodeInvalidSequence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body httputil.ErrorBody
			if code := postJSON(t, ts.URL+"/api/v1/call", tt.body, &body); code != tt.status || body.Error.Code != tt.code {
				t.Errorf("POST call = %d %s, want %d %s", code, body.Error.Code, tt.status, tt.code)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	m.Install()
	t.Cleanup(observability.Reset)
	ts := newTestServer(t, m.Handler())

	var walk WalkResponse
	if code := postJSON(t, ts.URL+"/api/v1/walk", `{"seeds":["GCAAG"]}`, &walk); code != http.StatusOK {
		t.Fatalf("walk status = %d", code)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	body := string(data)
	for _, want := range []string{
		`cortexwalk_http_requests_total{method="POST",route="/api/v1/walk",status="200"} 1`,
		`cortexwalk_traversals_total{direction="both",outcome="found",rule="contig"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	def := config.TraversalConfig{Colors: []string{"a"}, Rule: "contig", Direction: "both", MaxBranchLength: 7}
	got := withDefaults(config.TraversalConfig{Rule: "bubble-closing"}, def)
	if len(got.Colors) != 1 || got.Colors[0] != "a" || got.Rule != "bubble-closing" || got.Direction != "both" || got.MaxBranchLength != 7 {
		t.Errorf("withDefaults() = %+v", got)
	}
}
