package config

import "sync"

// Saver writes settings off the caller's goroutine. Saves run one at a time
// and a save superseded by a newer request is skipped.
type Saver struct {
	path string

	mu     sync.Mutex
	seq    uint64
	write  sync.Mutex
	wg     sync.WaitGroup
	saveFn func(path string, cfg *Config) error
}

// NewSaver creates a Saver for the config file at path.
func NewSaver(path string) *Saver {
	return &Saver{path: path, saveFn: Save}
}

// SaveAsync writes a copy of cfg in the background. onErr, when set,
// receives the write error on the saving goroutine.
func (s *Saver) SaveAsync(cfg Config, onErr func(error)) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.write.Lock()
		defer s.write.Unlock()

		s.mu.Lock()
		superseded := seq != s.seq
		s.mu.Unlock()
		if superseded {
			return
		}

		if err := s.saveFn(s.path, &cfg); err != nil && onErr != nil {
			onErr(err)
		}
	}()
}

// Wait blocks until every pending save has finished.
func (s *Saver) Wait() {
	s.wg.Wait()
}
