package caller

import "strconv"

// Call is one output record.
type Call struct {
	ContigIndex   int         `json:"contig_index" bson:"contig_index"`
	WalkLength    int         `json:"walk_length" bson:"walk_length"`
	SegmentLength int         `json:"segment_length" bson:"segment_length"`
	Start         int         `json:"start" bson:"start"`
	Stop          int         `json:"stop" bson:"stop"`
	Chrom         string      `json:"chrom" bson:"chrom"`
	RefStart      int         `json:"ref_start" bson:"ref_start"`
	RefStop       int         `json:"ref_stop" bson:"ref_stop"`
	Strand        string      `json:"strand" bson:"strand"`
	Type          VariantType `json:"type" bson:"type"`
	// Alt and Ref hold the alleles of a bubble call. A breakpoint carries
	// the piece's CIGAR in Alt and its aligned sequence in Ref.
	Alt string `json:"alt" bson:"alt"`
	Ref string `json:"ref" bson:"ref"`
}

// Header names the columns of [Call.Fields].
var Header = []string{
	"contig_index", "walk_length", "segment_length", "start", "stop", "chromosome",
	"ref_start", "ref_stop", "strand", "type", "alt_allele", "ref_allele",
}

// Fields renders c in column order. Empty alleles print as ".".
func (c Call) Fields() []string {
	return []string{
		strconv.Itoa(c.ContigIndex),
		strconv.Itoa(c.WalkLength),
		strconv.Itoa(c.SegmentLength),
		strconv.Itoa(c.Start),
		strconv.Itoa(c.Stop),
		orDefault(c.Chrom, "unknown"),
		strconv.Itoa(c.RefStart),
		strconv.Itoa(c.RefStop),
		orDefault(c.Strand, "+"),
		string(c.Type),
		orDefault(c.Alt, "."),
		orDefault(c.Ref, "."),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
