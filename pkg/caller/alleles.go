package caller

// VariantType classifies a call.
type VariantType string

const (
	SNV VariantType = "SNV"
	MNP VariantType = "MNP"
	INS VariantType = "INS"
	DEL VariantType = "DEL"
	UKN VariantType = "UKN"
	BRK VariantType = "BRK"
)

// Alleles splits a ref/alt pair into shared flanks and differing middles.
// Prefix+Ref+Suffix and Prefix+Alt+Suffix rebuild the inputs.
type Alleles struct {
	Prefix, Ref, Alt, Suffix string
}

// Type classifies the alleles.
func (a Alleles) Type() VariantType { return Classify(a.Ref, a.Alt) }

// ContigsToAlleles trims the longest common prefix of ref and alt, then the
// longest common suffix that does not reach into that prefix.
func ContigsToAlleles(ref, alt string) Alleles {
	p := 0
	for p < len(ref) && p < len(alt) && ref[p] == alt[p] {
		p++
	}
	room := min(len(ref), len(alt)) - p
	s := 0
	for s < room && ref[len(ref)-1-s] == alt[len(alt)-1-s] {
		s++
	}
	return Alleles{
		Prefix: ref[:p],
		Ref:    ref[p : len(ref)-s],
		Alt:    alt[p : len(alt)-s],
		Suffix: ref[len(ref)-s:],
	}
}

// Classify names the variant between two trimmed alleles.
func Classify(ref, alt string) VariantType {
	switch {
	case len(ref) == 1 && len(alt) == 1:
		return SNV
	case len(ref) > 1 && len(alt) > 1:
		return MNP
	case len(ref) == 0 && len(alt) > 0:
		return INS
	case len(ref) > 0 && len(alt) == 0:
		return DEL
	}
	return UKN
}
