package engine

import (
	"fmt"
	"log/slog"

	"cvscore/internal/protocol"
)

// Handle executes one request and always returns exactly one response with
// the request's ID. Failures, panics included, become error responses.
func (e *Engine) Handle(req protocol.Request) (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = protocol.Failure(req.ID, fmt.Errorf("engine: panic handling %s: %v", req.Type, r))
		}
		if resp.Type == protocol.TypeError {
			e.log().Warn("request failed",
				slog.String("id", req.ID),
				slog.String("command", string(req.Type)),
				slog.String("error", string(resp.Payload)),
			)
		}
	}()

	if !e.Ready() {
		return protocol.Failure(req.ID, ErrNotReady)
	}
	resultType, ok := protocol.ResultType(req.Type)
	if !ok {
		return protocol.Failure(req.ID, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Type))
	}

	result, err := e.execute(req)
	if err != nil {
		return protocol.Failure(req.ID, err)
	}
	return protocol.Result(resultType, req.ID, result)
}

func (e *Engine) execute(req protocol.Request) (any, error) {
	switch req.Type {
	case protocol.CommandAnalyzeRelevance:
		var p protocol.RelevancePayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		return e.AnalyzeRelevance(p.CVText, p.JobText)
	case protocol.CommandSuggestKeywords:
		var p protocol.TextPayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		return e.SuggestKeywords(p.Text)
	case protocol.CommandAnalyzeComplexity:
		var p protocol.TextPayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		return e.AnalyzeComplexity(p.Text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Type)
	}
}
