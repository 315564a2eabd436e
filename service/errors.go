package service

import (
	"errors"
	"fmt"
)

// ErrNoUserMessage is returned when the conversation history carries no
// user-authored message. It fails the request before any collaborator call.
var ErrNoUserMessage = errors.New("history contains no user message")

// UpstreamFormatError reports a language-model response that is not valid
// JSON or lacks a required field. It is fatal to the request.
type UpstreamFormatError struct {
	Stage   string
	Message string
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func formatErr(stage, format string, args ...interface{}) error {
	return &UpstreamFormatError{Stage: stage, Message: fmt.Sprintf(format, args...)}
}
