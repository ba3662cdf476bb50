package style

import (
	"strings"
	"sync"
)

// Sheet accumulates the compiled CSS of a registry: one base block for global
// reset styles plus one block per definition, in the order definitions were
// first compiled.
type Sheet struct {
	mu     sync.RWMutex
	base   string
	order  []string
	blocks map[string]string
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{blocks: make(map[string]string)}
}

// SetBase replaces the global base block.
func (s *Sheet) SetBase(css string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = css
}

// Base returns the global base block.
func (s *Sheet) Base() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// Set stores the block for a definition, keeping its original position when
// it is replaced.
func (s *Sheet) Set(name, css string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[name]; !ok {
		s.order = append(s.order, name)
	}
	s.blocks[name] = css
}

// Get returns the block of a definition.
func (s *Sheet) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	css, ok := s.blocks[name]
	return css, ok
}

// Delete drops the block of a definition.
func (s *Sheet) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[name]; !ok {
		return
	}
	delete(s.blocks, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reset drops every definition block but keeps the base block.
func (s *Sheet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.blocks = make(map[string]string)
}

// CSS renders the whole sheet.
func (s *Sheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	if s.base != "" {
		b.WriteString("/* base */\n")
		b.WriteString(s.base)
	}
	for _, name := range s.order {
		css := s.blocks[name]
		if css == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("/* ")
		b.WriteString(name)
		b.WriteString(" */\n")
		b.WriteString(css)
	}
	return b.String()
}
