package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cortexwalk/pkg/errors"
	cwio "github.com/matzehuels/cortexwalk/pkg/io"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output string // store directory; defaults to [graph] store
	k      int    // k-mer size; defaults to [graph] kmer_size
	force  bool   // replace an existing store
}

// sampleInput is one SAMPLE=FASTA argument. Its position is its color.
type sampleInput struct {
	Name string
	Path string
}

// buildCommand creates the build command that indexes FASTA files into a
// colored graph store.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build SAMPLE=FASTA [SAMPLE=FASTA...]",
		Short: "Build a colored graph store from FASTA files, one color per sample",
		Long: `Build a colored graph store from FASTA files.

Each argument names a sample and the FASTA file holding its sequence, for
example a reference and the assembled reads of a sample:

  cortexwalk build -o graph.db -k 31 hg19=ref.fa NA12878=contigs.fa

Colors are assigned in argument order. Runs of non-ACGT bases split a
sequence; no k-mer spans them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.output == "" {
				opts.output = cfg.Graph.Store
			}
			if opts.k == 0 {
				opts.k = cfg.Graph.KmerSize
			}
			inputs, err := parseSampleInputs(args)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), inputs, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "store directory (default: [graph] store)")
	cmd.Flags().IntVarP(&opts.k, "kmer-size", "k", 0, "k-mer size, odd (default: [graph] kmer_size)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "replace an existing store")

	return cmd
}

// parseSampleInputs splits SAMPLE=FASTA arguments and checks the names.
func parseSampleInputs(args []string) ([]sampleInput, error) {
	seen := make(map[string]bool, len(args))
	out := make([]sampleInput, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "argument %q is not SAMPLE=FASTA", arg)
		}
		if err := errors.ValidateSampleName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sample %q given twice", name)
		}
		seen[name] = true
		out = append(out, sampleInput{Name: name, Path: path})
	}
	return out, nil
}

// runBuild indexes every input and writes the store.
func (c *CLI) runBuild(ctx context.Context, inputs []sampleInput, opts buildOpts) error {
	if opts.output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no output store: pass --output or set [graph] store")
	}
	if opts.k < 3 || opts.k%2 == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "kmer size must be odd and at least 3, got %d", opts.k)
	}
	if err := prepareOutput(opts.output, opts.force); err != nil {
		return err
	}

	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	b := store.NewBuilder(opts.k, names)

	for color, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(in.Path); err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "sample %s", in.Name)
		}
		prog := newProgress(c.Logger)
		seqs, err := cwio.ImportFASTA(in.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "sample %s", in.Name)
		}
		bases := 0
		for _, s := range seqs {
			if err := b.AddSequence(color, s.Seq); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %s", in.Path, s.Name)
			}
			bases += len(s.Seq)
		}
		prog.done(fmt.Sprintf("Indexed %s: %d sequences, %d bases", in.Name, len(seqs), bases))
	}

	prog := newProgress(c.Logger)
	sp := startSpinner(ctx, os.Stderr, fmt.Sprintf("Writing %d k-mers to %s...", b.Len(), opts.output))
	err := writeStore(opts.output, opts.k, names, b, c.Logger)
	sp.finish(err, fmt.Sprintf("Wrote %d k-mers", b.Len()))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d k-mers", b.Len()))

	printSuccess("Built graph store")
	printFile(opts.output)
	printKeyValue("k", fmt.Sprint(opts.k))
	printKeyValue("k-mers", fmt.Sprint(b.Len()))
	printKeyValue("samples", strings.Join(names, ", "))
	printNextStep("Walk from a seed", fmt.Sprintf("%s walk -g %s SEED", appName, opts.output))
	return nil
}

// writeStore persists the builder's records into a new badger store.
func writeStore(path string, k int, names []string, b *store.Builder, logger *log.Logger) error {
	s, err := store.CreateBadger(store.BadgerOptions{Path: path, Logger: logger}, k, names)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create %s", path)
	}
	if err := s.PutAll(b.Records()); err != nil {
		s.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "write %s", path)
	}
	if err := s.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close %s", path)
	}
	return nil
}

// prepareOutput refuses to overwrite a non-empty directory unless force is
// set, in which case the directory is removed.
func prepareOutput(path string, force bool) error {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "output %s", path)
	}
	if len(entries) == 0 {
		return nil
	}
	if !force {
		return errors.New(errors.ErrCodeInvalidConfig, "output %s exists; pass --force to replace it", path)
	}
	return os.RemoveAll(path)
}
