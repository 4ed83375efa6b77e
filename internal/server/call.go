package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/httputil"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/kmer"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// CallRequest is the body of a call request. Zero limits fall back to the
// server's caller settings; an empty Novel list means every k-mer of the
// sample absent from all reference colors.
type CallRequest struct {
	Sample        string   `json:"sample"`
	Novel         []string `json:"novel,omitempty"`
	MaxWalkLength int      `json:"max_walk_length,omitempty"`
	MinMapQ       int      `json:"min_mapq,omitempty"`
	MaxNovels     int      `json:"max_novels,omitempty"`
}

// CallResponse holds the calls of one run, in contig order.
type CallResponse struct {
	Summary CallSummary   `json:"summary"`
	Contigs []CallContig  `json:"contigs"`
	Calls   []caller.Call `json:"calls"`
	// Error is set when some contigs failed; the rest are still reported.
	Error string `json:"error,omitempty"`
}

// CallSummary mirrors [caller.Summary].
type CallSummary struct {
	Novels      int           `json:"novels"`
	Walks       int           `json:"walks"`
	Contigs     int           `json:"contigs"`
	Calls       int           `json:"calls"`
	Breakpoints int           `json:"breakpoints"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration_ns"`
}

// CallContig is one reduced contig.
type CallContig struct {
	Index    int    `json:"index"`
	Sequence string `json:"sequence"`
}

type contigCollector []CallContig

func (c *contigCollector) WriteContig(index int, seq string) error {
	*c = append(*c, CallContig{Index: index, Sequence: seq})
	return nil
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := httputil.DecodeJSON(r, &req, 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Sample == "" {
		req.Sample = s.caller.Sample
	}
	if req.MinMapQ == 0 {
		req.MinMapQ = s.caller.MinMapQ
	}
	if req.MaxNovels == 0 {
		req.MaxNovels = s.caller.MaxNovels
	}
	if req.MaxWalkLength == 0 {
		req.MaxWalkLength = s.defaults.MaxWalkLength
	}
	if req.Sample == "" {
		httputil.WriteError(w, errors.New(errors.ErrCodeInvalidInput, "sample is required"))
		return
	}

	st := s.runner.Store
	novel, err := s.novelKmers(st, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := caller.NewRunner(caller.Config{
		Store:         st,
		Sample:        req.Sample,
		Novel:         novel,
		References:    s.references,
		Links:         s.runner.Links,
		MaxWalkLength: req.MaxWalkLength,
		MinMapQ:       req.MinMapQ,
		MaxNovels:     req.MaxNovels,
		Workers:       s.caller.Workers,
		Logger:        s.logger,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var contigs contigCollector
	calls := &cwio.MemorySink{}
	sum, runErr := run.Run(r.Context(), &contigs, calls)
	if runErr != nil && sum.Contigs == 0 {
		if r.Context().Err() != nil {
			runErr = errors.Wrap(errors.ErrCodeTimeout, runErr, "call")
		}
		httputil.WriteError(w, runErr)
		return
	}

	resp := CallResponse{
		Summary: CallSummary{
			Novels:      sum.Novels,
			Walks:       sum.Walks,
			Contigs:     sum.Contigs,
			Calls:       sum.Calls,
			Breakpoints: sum.Breakpoints,
			Failed:      sum.Failed,
			Duration:    sum.Duration,
		},
		Contigs: contigs,
		Calls:   calls.Calls,
	}
	if resp.Contigs == nil {
		resp.Contigs = []CallContig{}
	}
	if resp.Calls == nil {
		resp.Calls = []caller.Call{}
	}
	if runErr != nil {
		resp.Error = errors.UserMessage(runErr)
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// novelKmers validates the requested k-mers, or scans the store for the
// sample's k-mers missing from every reference.
func (s *Server) novelKmers(st store.Store, req CallRequest) ([]kmer.Canonical, error) {
	color, ok := st.ColorForSample(req.Sample)
	if !ok {
		return nil, errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", req.Sample)
	}
	if len(req.Novel) > 0 {
		out := make([]kmer.Canonical, 0, len(req.Novel))
		for _, km := range req.Novel {
			km = strings.ToUpper(km)
			if err := errors.ValidateKmer(km, st.KmerSize()); err != nil {
				return nil, err
			}
			ck, _ := kmer.Canonicalize(km)
			out = append(out, ck)
		}
		return out, nil
	}

	it, ok := st.(store.Iterable)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "store cannot be scanned; pass novel k-mers")
	}
	var background []int
	for _, ref := range s.references {
		if c, ok := st.ColorForSample(ref.Name); ok {
			background = append(background, c)
		}
	}
	novel, err := store.Novel(it, color, background)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "scan novel k-mers")
	}
	return novel, nil
}
