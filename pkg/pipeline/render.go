package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/cortexwalk/pkg/graph"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. colorNames
// label edge colors in DOT and SVG output.
func Render(ctx context.Context, g *graph.Graph, contigs []Contig, opts Options, colorNames []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelinkOptions(opts, colorNames))
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		case FormatFASTA:
			data, err = renderFASTA(contigs)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func nodelinkOptions(opts Options, colorNames []string) nodelink.Options {
	return nodelink.Options{
		Detailed:   opts.Detailed,
		ColorNames: colorNames,
	}
}

func renderFASTA(contigs []Contig) ([]byte, error) {
	var buf bytes.Buffer
	w := cwio.NewFASTAWriter(&buf)
	for i, c := range contigs {
		if err := w.WriteContig(i, c.Sequence); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
