package sync

import "sync"

// defaultHistorySize bounds the in-memory run history
const defaultHistorySize = 20

// runHistory retains the most recent run results, newest first
type runHistory struct {
	mu   sync.Mutex
	max  int
	runs []SyncRunResult
}

func newRunHistory(max int) *runHistory {
	if max <= 0 {
		max = defaultHistorySize
	}
	return &runHistory{max: max}
}

func (h *runHistory) add(run SyncRunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append([]SyncRunResult{run}, h.runs...)
	if len(h.runs) > h.max {
		h.runs = h.runs[:h.max]
	}
}

func (h *runHistory) recent() []SyncRunResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SyncRunResult, len(h.runs))
	copy(out, h.runs)
	return out
}
