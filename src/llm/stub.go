package llm

import (
	"context"
	"fmt"
)

// Stub is a deterministic Provider: same prompt always yields the same
// reply, with no network call. Lets MutationSource/SecondOpinion callers
// be exercised in tests without a live API key.
type Stub struct {
	// Replies maps a prompt to its canned reply. A prompt absent from
	// Replies falls back to a deterministic echo derived from the prompt.
	Replies map[string]string
}

// NewStub returns a Stub with the given canned replies. A nil or empty
// map is valid; every prompt then falls back to the echo behavior.
func NewStub(replies map[string]string) *Stub {
	if replies == nil {
		replies = make(map[string]string)
	}
	return &Stub{Replies: replies}
}

// Complete returns the canned reply for prompt, or a deterministic echo
// if none was registered.
func (s *Stub) Complete(_ context.Context, prompt string) (string, error) {
	if reply, ok := s.Replies[prompt]; ok {
		return reply, nil
	}
	return fmt.Sprintf("stub-reply: %s", prompt), nil
}
