package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken

	loadEncoding = func() (*tiktoken.Tiktoken, error) { return tiktoken.GetEncoding(tokenEncoding) }
)

// CountTokens counts tokens for endpoints that omit usage. When the BPE
// tables cannot be loaded it falls back to EstimateTokens.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	encOnce.Do(func() {
		e, err := loadEncoding()
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return EstimateTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// EstimateTokens approximates the token count as one token per four bytes.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
