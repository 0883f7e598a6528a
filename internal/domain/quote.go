// Package domain contains core business entities and rules.
package domain

// MaxQuotes is the number of quotes kept from a single fetch.
// Anything past it is dropped in source order.
const MaxQuotes = 50

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
// A quote has no identity of its own; it is addressed by its list position.
type Quote struct {
	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string
}

// QuoteList is an ordered batch of quotes as delivered by the quote source.
type QuoteList []Quote

// NewQuoteList copies at most MaxQuotes quotes, preserving source order.
func NewQuoteList(quotes []Quote) QuoteList {
	n := min(len(quotes), MaxQuotes)

	list := make(QuoteList, n)
	copy(list, quotes[:n])

	return list
}

// Len returns the number of quotes in the list.
func (l QuoteList) Len() int {
	return len(l)
}

// Clone returns an independent copy of the list.
// A nil list clones to nil.
func (l QuoteList) Clone() QuoteList {
	if l == nil {
		return nil
	}

	out := make(QuoteList, len(l))
	copy(out, l)

	return out
}
