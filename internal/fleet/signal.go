package fleet

// SignalHistoryLen is the capacity of a pillar's signal history.
const SignalHistoryLen = 10

// pushSignal returns a new history with sample in front, evicting from the back
// once SignalHistoryLen is exceeded. The input slice is never modified, so
// histories held by older snapshots stay valid.
func pushSignal(history []int, sample int) []int {
	n := len(history) + 1
	if n > SignalHistoryLen {
		n = SignalHistoryLen
	}
	out := make([]int, n)
	out[0] = sample
	copy(out[1:], history)
	return out
}

// seedSignal starts a history with the last known rssi.
func seedSignal(rssi int) []int {
	return []int{rssi}
}
