package editing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"mediapick/internal/media"
	"mediapick/internal/stage"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// TerminalPrompter reads answers line by line. An empty answer means yes;
// end of input means no. A read left pending by a cancelled prompt answers
// the next prompt.
type TerminalPrompter struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	pending chan answer
}

type answer struct {
	line string
	err  error
}

// NewTerminalPrompter constructs a prompter over in and out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm returns ctx.Err() as soon as ctx ends, even while waiting for input.
func (p *TerminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s [Y/n]: ", question)

	if p.pending == nil {
		ch := make(chan answer, 1)
		p.pending = ch
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- answer{line: line, err: err}
		}()
	}

	var a answer
	select {
	case a = <-p.pending:
		p.pending = nil
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	}

	if a.err != nil && a.line == "" {
		if errors.Is(a.err, io.EOF) {
			return false, nil
		}
		return false, a.err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(a.line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmFilter asks before keeping a filter result. A no becomes an abort.
func ConfirmFilter(next stage.Filter, prompter Prompter) stage.Filter {
	return confirmFilter{next: next, prompter: prompter}
}

type confirmFilter struct {
	next     stage.Filter
	prompter Prompter
}

func (c confirmFilter) Apply(ctx context.Context, item media.Item) (stage.Result, error) {
	res, err := c.next.Apply(ctx, item)
	if err != nil || res.Aborted {
		return res, err
	}
	ok, err := c.prompter.Confirm(ctx, fmt.Sprintf("Keep filtered %s?", res.Item))
	if err != nil {
		return stage.Result{}, err
	}
	if !ok {
		return stage.Abort(), nil
	}
	return res, nil
}

// HealthCheck forwards to the wrapped filter.
func (c confirmFilter) HealthCheck(ctx context.Context) stage.Health {
	if checker, ok := c.next.(stage.HealthChecker); ok {
		return checker.HealthCheck(ctx)
	}
	return stage.Healthy("filter")
}

// ConfirmCropper asks before keeping a crop. A no becomes an abort.
func ConfirmCropper(next stage.Cropper, prompter Prompter) stage.Cropper {
	return confirmCropper{next: next, prompter: prompter}
}

type confirmCropper struct {
	next     stage.Cropper
	prompter Prompter
}

func (c confirmCropper) Crop(ctx context.Context, photo media.Photo, ratio media.AspectRatio) (stage.Result, error) {
	res, err := c.next.Crop(ctx, photo, ratio)
	if err != nil || res.Aborted {
		return res, err
	}
	ok, err := c.prompter.Confirm(ctx, fmt.Sprintf("Crop to %s as %s?", ratio, res.Item))
	if err != nil {
		return stage.Result{}, err
	}
	if !ok {
		return stage.Abort(), nil
	}
	return res, nil
}

// ConfirmReviewer asks before handing back a reviewed selection. A no
// cancels the review.
func ConfirmReviewer(next stage.Reviewer, prompter Prompter) stage.Reviewer {
	return confirmReviewer{next: next, prompter: prompter}
}

type confirmReviewer struct {
	next     stage.Reviewer
	prompter Prompter
}

func (c confirmReviewer) Review(ctx context.Context, items media.ProcessableSet) (media.ProcessedSet, bool, error) {
	out, cancelled, err := c.next.Review(ctx, items)
	if err != nil || cancelled {
		return out, cancelled, err
	}
	ok, err := c.prompter.Confirm(ctx, fmt.Sprintf("Use %d reviewed items?", len(out)))
	if err != nil {
		return nil, false, err
	}
	return out, !ok, nil
}
