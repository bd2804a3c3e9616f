package interview

// DefaultHistoryCap is the baseline maximum number of turns retained per
// session after any completed exchange.
const DefaultHistoryCap = 10

// TruncateHistory bounds a transcript to at most cap turns, always preserving
// the first (system) turn and the most recent cap-1 turns. Everything older in
// between ages out, trading intermediate context for a bounded request size.
// A cap below 1 floors at 1 so the system turn is never dropped.
func TruncateHistory(messages []Turn, cap int) []Turn {
	if cap < 1 {
		cap = 1
	}
	if len(messages) <= cap {
		return messages
	}

	truncated := make([]Turn, 0, cap)
	truncated = append(truncated, messages[0])
	truncated = append(truncated, messages[len(messages)-(cap-1):]...)
	return truncated
}
