package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"twistory/pkg/twitter"
)

// TimestampLayout is how post times are printed
const TimestampLayout = "2006-01-02 15:04:05"

// Presenter prints the user line and one line per post
type Presenter struct {
	out     io.Writer
	lineify bool
}

// NewPresenter creates a Presenter. With lineify, embedded newlines are
// printed as a literal \n.
func NewPresenter(out io.Writer, lineify bool) *Presenter {
	return &Presenter{out: out, lineify: lineify}
}

// PrintUser prints the name of the user being fetched
func (p *Presenter) PrintUser(user string) error {
	_, err := fmt.Fprintln(p.out, user)
	return err
}

// PrintPost prints "<id> <text> (<timestamp>)"
func (p *Presenter) PrintPost(t twitter.Tweet) error {
	_, err := io.WriteString(p.out, p.Format(t)+"\n")
	return err
}

// Format renders a post without the trailing newline
func (p *Presenter) Format(t twitter.Tweet) string {
	text := t.Text
	if p.lineify {
		text = Lineify(text)
	}
	return fmt.Sprintf("%d %s (%s)", t.ID, text, FormatTimestamp(t.CreatedAt))
}

// Lineify replaces newlines with the two characters \n
func Lineify(text string) string {
	return strings.ReplaceAll(text, "\n", `\n`)
}

// FormatTimestamp renders t in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
