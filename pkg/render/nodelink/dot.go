package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cortexwalk/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds copy index, direction tag and per-color coverage to the
	// node labels. When false only the oriented bases are shown.
	Detailed bool
	// Highlight marks vertices drawn with a filled accent, typically the
	// novel k-mers of a sample.
	Highlight func(graph.Vertex) bool
	// ColorNames labels edge colors in the legend. Missing entries print the
	// color index.
	ColorNames []string
}

// palette assigns a pen color per graph color. Colors beyond its length
// wrap around.
var palette = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#ff7f0e", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// PenColor returns the pen color used for graph color c.
func PenColor(c int) string {
	if c < 0 {
		c = -c
	}
	return palette[c%len(palette)]
}

// ToDOT converts a traversal subgraph to Graphviz DOT. Vertices are keyed by
// their id so copies of one k-mer stay distinct; parallel edges of
// different colors are drawn separately.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Courier\", fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		attrs := fmtAttrs(v, fmtLabel(v, opts.Detailed), opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID().String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, tooltip=%q];\n",
			e.From.String(), e.To.String(), PenColor(e.Color), colorName(e.Color, opts.ColorNames))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func colorName(c int, names []string) string {
	if c >= 0 && c < len(names) && names[c] != "" {
		return names[c]
	}
	return strconv.Itoa(c)
}

func fmtLabel(v graph.Vertex, detailed bool) string {
	if !detailed {
		return v.Bases
	}
	parts := []string{fmt.Sprintf("copy: %d  dir: %+d", v.Copy, v.Index)}
	if v.Record != nil {
		cov := make([]string, len(v.Record.Coverage))
		for i, c := range v.Record.Coverage {
			cov[i] = strconv.FormatUint(uint64(c), 10)
		}
		parts = append(parts, "cov: "+strings.Join(cov, ","))
	}
	if len(v.Sources) > 0 {
		parts = append(parts, "links: "+strings.Join(v.Sources, ","))
	}
	return v.Bases + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(v graph.Vertex, label string, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if opts.Highlight != nil && opts.Highlight(v) {
		attrs = append(attrs, "fillcolor=\"#fde68a\"")
	}
	if v.Copy != 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	if v.Index == 0 && v.Copy == 0 {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
