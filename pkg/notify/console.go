package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleNotifier prints colored one-line notifications.
type ConsoleNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	success *color.Color
	failure *color.Color
	warning *color.Color
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
	}
}

func (n *ConsoleNotifier) print(c *color.Color, mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", c.Sprint(mark), msg)
}

func (n *ConsoleNotifier) Success(msg string) { n.print(n.success, "✓", msg) }
func (n *ConsoleNotifier) Error(msg string)   { n.print(n.failure, "✗", msg) }
func (n *ConsoleNotifier) Warning(msg string) { n.print(n.warning, "!", msg) }

// PromptConfirmer asks on out and reads a y/N answer from in. Anything but
// an explicit yes declines.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	yes, no := c.PositiveText, c.NegativeText
	if yes == "" {
		yes = "yes"
	}
	if no == "" {
		no = "no"
	}
	title := color.New(color.FgHiMagenta, color.Bold).Sprint(c.Title)
	fmt.Fprintf(p.out, "%s\n%s\n[y] %s / [N] %s: ", title, c.Content, yes, no)

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
