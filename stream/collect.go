package stream

import (
	"context"
	"strings"
)

// TextCollector is a ready-made Hooks implementation that gathers the
// text blocks of every counted assistant message.
type TextCollector struct {
	NopHooks
	b strings.Builder
}

func (c *TextCollector) OnAssistant(msg AssistantMessage) {
	c.b.WriteString(msg.Message.Text())
}

func (c *TextCollector) Text() string { return c.b.String() }

// ResultCapture passes a stream through while remembering the final
// text of the terminal result message. When present it supersedes the
// concatenated assistant output.
type ResultCapture struct {
	Inner MessageStream

	result string
	seen   bool
}

func (r *ResultCapture) Next(ctx context.Context) (Message, error) {
	msg, err := r.Inner.Next(ctx)
	if err != nil {
		return msg, err
	}

	if result, ok := msg.(ResultMessage); ok && result.Result != "" {
		r.result = result.Result
		r.seen = true
	}
	return msg, nil
}

// Result returns the terminal result text, or the fallback when no
// result message carried one.
func (r *ResultCapture) Result(fallback string) string {
	if r.seen {
		return r.result
	}
	return fallback
}
