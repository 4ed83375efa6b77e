package align

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cortexwalk/pkg/errors"
)

// QueryPlaceholder is replaced by the query FASTA path in an
// [ExecAligner] command.
const QueryPlaceholder = "{query}"

// ExecAligner runs an external aligner that writes SAM to stdout, e.g.
//
//	[]string{"bwa", "mem", "-v", "0", "ref.fa", "{query}"}
type ExecAligner struct {
	Command []string
	TempDir string // defaults to os.TempDir()
	Logger  *log.Logger
}

// NewExecAligner validates command and builds an aligner.
func NewExecAligner(command []string) (*ExecAligner, error) {
	if len(command) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "aligner command is empty")
	}
	if !slices.ContainsFunc(command, func(arg string) bool { return strings.Contains(arg, QueryPlaceholder) }) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "aligner command %q has no %s argument", strings.Join(command, " "), QueryPlaceholder)
	}
	return &ExecAligner{Command: command}, nil
}

// Align writes contig to a temporary FASTA file and runs the command on it.
func (a *ExecAligner) Align(ctx context.Context, contig string) ([]Hit, error) {
	dir := a.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := uuid.NewString()
	query := filepath.Join(dir, "cortexwalk-"+name+".fa")
	if err := os.WriteFile(query, []byte(">"+name+"\n"+contig+"\n"), 0600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAligner, err, "write query")
	}
	defer os.Remove(query)

	args := make([]string, len(a.Command))
	for i, arg := range a.Command {
		args[i] = strings.ReplaceAll(arg, QueryPlaceholder, query)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s", args[0])
		}
		return nil, errors.Wrap(errors.ErrCodeAligner, err, "%s: %s", args[0], strings.TrimSpace(stderr.String()))
	}
	if a.Logger != nil && stderr.Len() > 0 {
		a.Logger.Debug("aligner stderr", "cmd", args[0], "stderr", strings.TrimSpace(stderr.String()))
	}

	hits, err := ParseSAM(&stdout)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAligner, err, "parse %s output", args[0])
	}
	return hits, nil
}

func (a *ExecAligner) String() string {
	return fmt.Sprintf("exec(%s)", strings.Join(a.Command, " "))
}
