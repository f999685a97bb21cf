package nav

import "sync"

// Recorder is a Navigator for tests. It records every opened URL instead
// of launching a browser.
type Recorder struct {
	mu   sync.Mutex
	URLs []string

	// OpenFunc overrides the default recording behavior when set.
	OpenFunc func(url string) error
}

// Open implements Navigator.
func (r *Recorder) Open(url string) error {
	if r.OpenFunc != nil {
		return r.OpenFunc(url)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.URLs = append(r.URLs, url)
	return nil
}

// Opened returns a copy of the recorded URLs.
func (r *Recorder) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.URLs))
	copy(out, r.URLs)
	return out
}

// Ensure Recorder implements Navigator at compile time.
var _ Navigator = (*Recorder)(nil)
