package stream

import (
	"context"
	"encoding/json"
)

// BudgetExceededKind is the error kind the agent runtime emits when the
// run's monetary ceiling has been hit.
const BudgetExceededKind = "budget_exceeded"

type Kind string

const (
	KindResult    Kind = "result"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
	KindError     Kind = "error"
	KindUnknown   Kind = "unknown"
)

// Message is one element of the query stream. It is a closed union: the
// decoder only ever produces the variants below, with UnknownMessage as
// the forward-compatibility fallback for tags we do not recognize.
type Message interface {
	Kind() Kind
}

// MessageStream yields messages one at a time in arrival order. Next
// returns io.EOF when the stream is exhausted; any other error is an
// upstream failure and ends consumption.
type MessageStream interface {
	Next(ctx context.Context) (Message, error)
}

// TokenUsage is the per-turn usage record on assistant messages.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ResultUsage is the usage record on the terminal result message. The
// cost field is a pointer: a result without a usable cost leaves the
// accumulated total untouched.
type ResultUsage struct {
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
	TotalCostUSD *float64 `json:"total_cost_usd"`
}

type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type ResultMessage struct {
	Subtype  string       `json:"subtype"`
	Result   string       `json:"result"`
	NumTurns int          `json:"num_turns"`
	Usage    *ResultUsage `json:"usage"`
}

func (ResultMessage) Kind() Kind { return KindResult }

type AssistantPayload struct {
	ID      string         `json:"id"`
	Usage   *TokenUsage    `json:"usage"`
	Content []ContentBlock `json:"content"`
}

type AssistantMessage struct {
	Message AssistantPayload `json:"message"`
}

func (AssistantMessage) Kind() Kind { return KindAssistant }

// SystemMessage may carry an incremental per-turn cost. Only the
// incremental accounting mode reads it.
type SystemMessage struct {
	Subtype string   `json:"subtype"`
	CostUSD *float64 `json:"cost_usd"`
}

func (SystemMessage) Kind() Kind { return KindSystem }

type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	Error ErrorPayload `json:"error"`
}

func (ErrorMessage) Kind() Kind { return KindError }

// UnknownMessage preserves the raw bytes of a tag we do not handle so
// new message shapes never abort tracking.
type UnknownMessage struct {
	Type string
	Raw  json.RawMessage
}

func (UnknownMessage) Kind() Kind { return KindUnknown }

type envelope struct {
	Type string `json:"type"`
}

// DecodeMessage turns one line of the runtime's JSONL output into a
// Message. It errors only when the payload is not valid JSON; a valid
// object with an unrecognized or missing type decodes to UnknownMessage.
func DecodeMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch Kind(env.Type) {
	case KindResult:
		var m ResultMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return UnknownMessage{Type: env.Type, Raw: data}, nil
		}
		return m, nil

	case KindAssistant:
		var m AssistantMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return UnknownMessage{Type: env.Type, Raw: data}, nil
		}
		return m, nil

	case KindSystem:
		var m SystemMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return UnknownMessage{Type: env.Type, Raw: data}, nil
		}
		return m, nil

	case KindError:
		var m ErrorMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return UnknownMessage{Type: env.Type, Raw: data}, nil
		}
		return m, nil

	default:
		return UnknownMessage{Type: env.Type, Raw: data}, nil
	}
}

// Text concatenates the text blocks of an assistant payload.
func (p AssistantPayload) Text() string {
	var out string
	for _, block := range p.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
