package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on out while a long stage runs. Its
// output never touches stdout, so it can run while calls stream there.
type spinner struct {
	out     io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
}

// startSpinner starts a spinner that stops on its own when ctx is done.
func startSpinner(ctx context.Context, out io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		out:     out,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// finish stops the animation and replaces it with the outcome: success when
// err is nil, a cancellation notice when the parent context ended first,
// the error otherwise. Later calls do nothing.
func (s *spinner) finish(err error, success string) {
	s.once.Do(func() {
		cancelled := s.ctx.Err() != nil
		s.cancel()
		<-s.stopped

		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		switch {
		case cancelled:
			fmt.Fprintln(s.out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render("Cancelled: "+s.message))
		case err != nil:
			fmt.Fprintln(s.out, styleIconError.Render(iconError)+" "+err.Error())
		default:
			fmt.Fprintln(s.out, styleIconSuccess.Render(iconSuccess)+" "+success)
		}
	})
}
