package main

import "strings"

// MarkovSummaryHandler implements the channel `:summary` proof of
// concept: an order-1 Markov chain over the recent history buffer,
// scoped down from original_source's MarkVShaney generator
// (SPEC_FULL.md §13). It prints a handful of generated lines and pops
// immediately; there is no interactive loop.
type MarkovSummaryHandler struct {
	client  *Client
	channel *Channel
	buffer  []ChannelLine
}

func newMarkovSummaryHandler(c *Client, ch *Channel, buffer []ChannelLine) *MarkovSummaryHandler {
	return &MarkovSummaryHandler{client: c, channel: ch, buffer: buffer}
}

const markovSentenceCount = 3

func (h *MarkovSummaryHandler) handle() (Handler, error) {
	conn := h.client.conn
	chain := buildMarkovChain(h.buffer)
	if len(chain) == 0 {
		return nil, conn.Print("There is not enough text to summarize.")
	}

	if err := conn.Print("Channel summary (generated, not a transcript):"); err != nil {
		return nil, err
	}
	for i := 0; i < markovSentenceCount; i++ {
		sentence := chain.generate(20)
		if sentence == "" {
			continue
		}
		if err := conn.Print("  ", sentence); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// markovChain maps each word to the words observed following it.
type markovChain map[string][]string

// buildMarkovChain tokenizes every line's body and links consecutive
// words, the way original_source's MarkVShaney builds its table from
// a corpus of sentences.
func buildMarkovChain(lines []ChannelLine) markovChain {
	chain := markovChain{}
	for _, line := range lines {
		words := strings.Fields(line.Body)
		for i := 0; i+1 < len(words); i++ {
			chain[words[i]] = append(chain[words[i]], words[i+1])
		}
	}
	return chain
}

// generate walks the chain starting from an arbitrary seed word,
// stopping at maxWords or when a word has no successors. Selection is
// deterministic (first recorded successor) rather than random, since
// this module avoids a source of nondeterminism the corpus has no
// library for.
func (chain markovChain) generate(maxWords int) string {
	var seed string
	for word := range chain {
		seed = word
		break
	}
	if seed == "" {
		return ""
	}

	words := []string{seed}
	current := seed
	for i := 1; i < maxWords; i++ {
		next, ok := chain[current]
		if !ok || len(next) == 0 {
			break
		}
		current = next[0]
		words = append(words, current)
	}
	return strings.Join(words, " ")
}
