// Package protocol defines the request/response envelopes exchanged with the
// scoring engine. Payloads travel as raw JSON so nothing is shared by
// reference across the boundary.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command tags a request.
type Command string

const (
	CommandAnalyzeRelevance  Command = "analyze_relevance"
	CommandSuggestKeywords   Command = "suggest_keywords"
	CommandAnalyzeComplexity Command = "analyze_complexity"
)

// ResponseType tags a response.
type ResponseType string

const (
	TypeAnalysisResult    ResponseType = "analysis_result"
	TypeSuggestionsResult ResponseType = "suggestions_result"
	TypeComplexityResult  ResponseType = "complexity_result"
	TypeError             ResponseType = "error"
)

var resultTypes = map[Command]ResponseType{
	CommandAnalyzeRelevance:  TypeAnalysisResult,
	CommandSuggestKeywords:   TypeSuggestionsResult,
	CommandAnalyzeComplexity: TypeComplexityResult,
}

// ResultType returns the response tag for a successful cmd.
func ResultType(cmd Command) (ResponseType, bool) {
	t, ok := resultTypes[cmd]
	return t, ok
}

// ErrInvalidPayload is returned when a payload cannot be decoded.
var ErrInvalidPayload = errors.New("protocol: invalid payload")

// RelevancePayload is the input of analyze_relevance.
type RelevancePayload struct {
	CVText  string `json:"cvText"`
	JobText string `json:"jobText"`
}

// TextPayload is the input of suggest_keywords and analyze_complexity.
type TextPayload struct {
	Text string `json:"text"`
}

// Request is one inbound message. ID is an opaque JSON string chosen by the
// caller and must be unique among its outstanding requests.
type Request struct {
	Type    Command         `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one outbound message carrying the ID of its request.
type Response struct {
	Type    ResponseType    `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// NewRequest encodes payload into a request envelope.
func NewRequest(cmd Command, id string, payload any) (Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("protocol: encode %s payload: %w", cmd, err)
	}
	return Request{Type: cmd, ID: id, Payload: data}, nil
}

// DecodePayload unmarshals the request payload into v. A missing payload
// decodes as an empty object.
func (r Request) DecodePayload(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidPayload, r.Type, err)
	}
	return nil
}

// Result builds a successful response. Encoding failures become an error response.
func Result(t ResponseType, id string, v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return Failure(id, fmt.Errorf("protocol: encode %s: %w", t, err))
	}
	return Response{Type: t, ID: id, Payload: data}
}

// Failure builds an error response whose payload is the error message string.
func Failure(id string, err error) Response {
	data, _ := json.Marshal(err.Error())
	return Response{Type: TypeError, ID: id, Payload: data}
}

// RemoteError is the caller-side form of an error response.
type RemoteError struct {
	ID      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("request %s failed: %s", e.ID, e.Message)
}

// Err returns a *RemoteError for error responses and nil otherwise.
func (r Response) Err() error {
	if r.Type != TypeError {
		return nil
	}
	var msg string
	if err := json.Unmarshal(r.Payload, &msg); err != nil {
		msg = string(r.Payload)
	}
	return &RemoteError{ID: r.ID, Message: msg}
}

// Decode unmarshals a result payload into v, or returns the remote error.
func (r Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidPayload, r.Type, err)
	}
	return nil
}
