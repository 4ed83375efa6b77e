// Package config loads cortexwalk's TOML configuration.
//
// A configuration file names the graph store, the traversal settings by
// sample name, the reference genomes and their aligners, link-evidence
// files, caller limits, the cache backend and optional outputs:
//
//	[graph]
//	store = "graph.db"
//	kmer_size = 31
//
//	[traversal]
//	colors = ["NA12878"]
//	direction = "both"
//	operator = "or"
//	rule = "contig"
//
//	[references.hg19]
//	command = ["bwa", "mem", "hg19.fa", "{query}"]
//
//	[caller]
//	sample = "NA12878"
//	workers = 8
//
// Command-line flags override individual fields after [Load].
package config

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortexwalk/pkg/align"
	"github.com/matzehuels/cortexwalk/pkg/cache"
	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/links"
	"github.com/matzehuels/cortexwalk/pkg/store"
	"github.com/matzehuels/cortexwalk/pkg/traversal"
)

// DefaultKmerSize is the k used by build when none is configured.
const DefaultKmerSize = 31

// Config is the whole configuration file.
type Config struct {
	Graph      GraphConfig                `toml:"graph"`
	Traversal  TraversalConfig            `toml:"traversal"`
	References map[string]ReferenceConfig `toml:"references"`
	Links      LinksConfig                `toml:"links"`
	Caller     CallerConfig               `toml:"caller"`
	Cache      CacheConfig                `toml:"cache"`
	Output     OutputConfig               `toml:"output"`
	Server     ServerConfig               `toml:"server"`
}

type GraphConfig struct {
	Store    string `toml:"store"`
	KmerSize int    `toml:"kmer_size"`
}

// TraversalConfig names colors by sample. Names are resolved against the
// store by [TraversalConfig.Resolve].
type TraversalConfig struct {
	Colors              []string `toml:"colors" json:"colors"`
	Joining             []string `toml:"joining" json:"joining,omitempty"`
	Recruitment         []string `toml:"recruitment" json:"recruitment,omitempty"`
	Secondary           []string `toml:"secondary" json:"secondary,omitempty"`
	Direction           string   `toml:"direction" json:"direction,omitempty"`
	Operator            string   `toml:"operator" json:"operator,omitempty"`
	Rule                string   `toml:"rule" json:"rule,omitempty"`
	MaxBranchLength     int      `toml:"max_branch_length" json:"max_branch_length,omitempty"`
	MaxWalkLength       int      `toml:"max_walk_length" json:"max_walk_length,omitempty"`
	ConnectAllNeighbors bool     `toml:"connect_all_neighbors" json:"connect_all_neighbors,omitempty"`
}

// ReferenceConfig is one reference genome. The table key is the sample name
// of the reference in the graph.
type ReferenceConfig struct {
	// Command runs the aligner; one argument must contain "{query}".
	Command []string `toml:"command"`
	// Source is the sample recruited across gaps in the reference color.
	Source string `toml:"source"`
}

type LinksConfig struct {
	Paths []string `toml:"paths"`
}

type CallerConfig struct {
	Sample    string `toml:"sample"`
	MinMapQ   int    `toml:"min_mapq"`
	Workers   int    `toml:"workers"`
	MaxNovels int    `toml:"max_novels"`
}

type CacheConfig struct {
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLHours      int    `toml:"ttl_hours"`
	Namespace     string `toml:"namespace"`
}

type OutputConfig struct {
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Graph: GraphConfig{KmerSize: DefaultKmerSize},
		Traversal: TraversalConfig{
			Direction:       traversal.Both.String(),
			Operator:        traversal.Or.String(),
			Rule:            traversal.RuleContig.String(),
			MaxBranchLength: traversal.DefaultMaxBranchLength,
		},
		References: map[string]ReferenceConfig{},
		Caller: CallerConfig{
			MinMapQ:   align.DefaultMinMapQ,
			Workers:   caller.DefaultWorkers,
			MaxNovels: caller.DefaultMaxNovels,
		},
		Cache:  CacheConfig{TTLHours: 24 * 7},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Parse decodes TOML on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Validate checks values that do not need the graph.
func (c Config) Validate() error {
	if c.Graph.KmerSize < 3 || c.Graph.KmerSize%2 == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "kmer_size must be odd and at least 3, got %d", c.Graph.KmerSize)
	}
	if _, err := traversal.ParseDirection(c.Traversal.Direction); err != nil {
		return err
	}
	if _, err := traversal.ParseOperator(c.Traversal.Operator); err != nil {
		return err
	}
	if _, err := traversal.ParseRule(c.Traversal.Rule); err != nil {
		return err
	}
	if c.Traversal.MaxBranchLength < 0 || c.Traversal.MaxWalkLength < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "traversal lengths must be non-negative")
	}
	for name, r := range c.References {
		if len(r.Command) == 0 {
			continue
		}
		if _, err := align.NewExecAligner(r.Command); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "reference %s", name)
		}
	}
	if c.Caller.MinMapQ < 0 || c.Caller.Workers < 0 || c.Caller.MaxNovels < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "caller limits must be non-negative")
	}
	if c.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be non-negative")
	}
	return nil
}

// Resolve builds an engine configuration against s. Unknown sample names
// are an error.
func (t TraversalConfig) Resolve(s store.Store) (traversal.Config, error) {
	dir, err := traversal.ParseDirection(t.Direction)
	if err != nil {
		return traversal.Config{}, err
	}
	op, err := traversal.ParseOperator(t.Operator)
	if err != nil {
		return traversal.Config{}, err
	}
	rule, err := traversal.ParseRule(t.Rule)
	if err != nil {
		return traversal.Config{}, err
	}
	cfg := traversal.Config{
		Direction:           dir,
		Operator:            op,
		Rule:                rule,
		MaxBranchLength:     t.MaxBranchLength,
		MaxWalkLength:       t.MaxWalkLength,
		ConnectAllNeighbors: t.ConnectAllNeighbors,
		Store:               s,
	}
	for _, set := range []struct {
		names []string
		dst   *[]int
	}{
		{t.Colors, &cfg.TraversalColors},
		{t.Joining, &cfg.JoiningColors},
		{t.Recruitment, &cfg.RecruitmentColors},
		{t.Secondary, &cfg.SecondaryColors},
	} {
		colors, err := colorsFor(s, set.names)
		if err != nil {
			return traversal.Config{}, err
		}
		*set.dst = colors
	}
	return cfg, nil
}

func colorsFor(s store.Store, names []string) ([]int, error) {
	var out []int
	for _, n := range names {
		c, ok := s.ColorForSample(n)
		if !ok {
			return nil, errors.New(errors.ErrCodeSampleNotFound, "sample %q not in graph", n)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadLinks opens every configured link file.
func (l LinksConfig) LoadLinks() ([]links.Source, error) {
	var out []links.Source
	for _, p := range l.Paths {
		src, err := links.LoadJSONL(p)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Keyer returns the cache key layout. A namespace prefixes every key so
// graphs sharing one cache do not collide.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Namespace+":")
}

// Open returns the configured cache: Redis when an address is set, a file
// cache when a directory is set, otherwise a cache that stores nothing.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.RedisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   "cortexwalk:",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case c.Dir != "":
		fc, err := cache.NewFileCache(c.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
	return cache.NewNullCache(), nil
}

// BuildReferences builds the caller's references, each aligner wrapped in c.
// A reference without a command takes part in bubble closing but never
// places calls.
func (c Config) BuildReferences(ch cache.Cache, logger *log.Logger) []caller.Reference {
	names := make([]string, 0, len(c.References))
	for n := range c.References {
		names = append(names, n)
	}
	slices.Sort(names)

	refs := make([]caller.Reference, 0, len(names))
	for _, n := range names {
		rc := c.References[n]
		ref := caller.Reference{Name: n, Source: rc.Source}
		if len(rc.Command) > 0 {
			exec, err := align.NewExecAligner(rc.Command)
			if err == nil {
				exec.Logger = logger
				cached := align.NewCachedAligner(exec, ch, n, c.Cache.TTL())
				cached.Keyer = c.Cache.Keyer()
				ref.Aligner = cached
			} else if logger != nil {
				logger.Warn("reference aligner disabled", "reference", n, "err", err)
			}
		}
		refs = append(refs, ref)
	}
	return refs
}
