// Package tokencount estimates prompt token usage for outbound model calls.
//
// It uses tiktoken-go for the estimate. Gemini does not share OpenAI's BPE
// vocabulary, so the numbers are an approximation used for logging and
// monitoring, not billing.
package tokencount

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token estimation.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter { return &Counter{} }

// DefaultCounter is a shared instance for package-level use.
var DefaultCounter = NewCounter()

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		// cl100k_base is a reasonable approximation for modern chat models.
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
	})
	return c.enc, c.err
}

// Count estimates the number of tokens in text.
func (c *Counter) Count(text string) (int, error) {
	enc, err := c.encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountPair estimates tokens for a system-instruction plus user-message pair,
// with a small per-message overhead matching chat wire formats.
func (c *Counter) CountPair(system, user string) (int, error) {
	enc, err := c.encoding()
	if err != nil {
		return 0, err
	}
	const perMessageOverhead = 4
	n := len(enc.Encode(system, nil, nil)) + len(enc.Encode(user, nil, nil))
	return n + 2*perMessageOverhead, nil
}
