package hls

// retainChange is the relative size change below which the sink is not updated again.
const retainChange = 0.1

type windowEntry struct {
	duration float64
	size     int64
}

// backWindow sizes the back buffer from the most recent segments covering length seconds.
type backWindow struct {
	length  float64
	entries []windowEntry
	seconds float64
	bytes   int64
	applied int64
}

// add records an appended segment. It returns the window size in bytes and whether
// it moved far enough from the last applied size to be sent to the sink.
func (w *backWindow) add(duration float64, size int) (int64, bool) {
	if w.length <= 0 {
		return 0, false
	}

	w.entries = append(w.entries, windowEntry{duration: duration, size: int64(size)})
	w.seconds += duration
	w.bytes += int64(size)

	for len(w.entries) > 1 && w.seconds-w.entries[0].duration >= w.length {
		w.seconds -= w.entries[0].duration
		w.bytes -= w.entries[0].size
		w.entries = w.entries[1:]
	}

	if w.seconds < w.length {
		return w.bytes, false
	}

	if w.applied > 0 {
		delta := float64(w.bytes-w.applied) / float64(w.applied)
		if delta < retainChange && delta > -retainChange {
			return w.bytes, false
		}
	}

	w.applied = w.bytes
	return w.bytes, true
}
