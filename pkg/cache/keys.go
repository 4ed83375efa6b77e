package cache

// Keyer builds cache keys.
type Keyer interface {
	// AlignmentKey addresses the hits of contig against a reference.
	AlignmentKey(reference, contig string) string
	// GraphKey addresses a traversal subgraph.
	GraphKey(seed string, opts GraphKeyOpts) string
}

// GraphKeyOpts are the traversal settings that change a subgraph.
type GraphKeyOpts struct {
	Store     string `json:"store"`
	Colors    []int  `json:"colors"`
	Rule      string `json:"rule"`
	Direction string `json:"direction"`

	Operator            string   `json:"operator,omitempty"`
	Joining             []int    `json:"joining,omitempty"`
	Recruitment         []int    `json:"recruitment,omitempty"`
	Secondary           []int    `json:"secondary,omitempty"`
	MaxBranchLength     int      `json:"max_branch_length,omitempty"`
	ConnectAllNeighbors bool     `json:"connect_all_neighbors,omitempty"`
	Links               []string `json:"links,omitempty"`
	// Previous is the hash of the previous traversal the rules test against.
	Previous string `json:"previous,omitempty"`
}

// DefaultKeyer hashes every component, so keys have a fixed length whatever
// the contig size.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AlignmentKey returns "align:<sha256>".
func (DefaultKeyer) AlignmentKey(reference, contig string) string {
	return hashKey("align", reference, contig)
}

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(seed string, opts GraphKeyOpts) string {
	return hashKey("graph", seed, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, so deployments sharing
// one Redis keep their entries apart.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) AlignmentKey(reference, contig string) string {
	return k.prefix + k.inner.AlignmentKey(reference, contig)
}

func (k *ScopedKeyer) GraphKey(seed string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(seed, opts)
}
