package commands

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ppiankov/sentinel/internal/models"
	"github.com/ppiankov/sentinel/internal/watch"
)

// providerLister bounds the describe call with a timeout and shows a spinner
// while it runs.
type providerLister struct {
	inner    watch.Lister
	timeout  time.Duration
	progress bool
	w        io.Writer
}

func (l *providerLister) ListInstances(ctx context.Context) ([]models.Instance, error) {
	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	if l.progress {
		s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(l.w))
		s.Suffix = " Describing EC2 instances ..."
		s.Start()
		defer s.Stop()
	}

	return l.inner.ListInstances(ctx)
}

// withTimeout bounds ctx by d; a non-positive d leaves it unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
