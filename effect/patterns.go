package effect

import (
	"sort"
	"strings"
	"sync"
)

// Patterns selects which layer surfaces get the effect, by namespace. A pattern is an exact
// name, "prefix*" or "*suffix".
type Patterns struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

func NewPatterns(initial ...string) *Patterns {
	p := &Patterns{set: make(map[string]struct{})}
	for _, pat := range initial {
		p.Add(pat)
	}
	return p
}

func (p *Patterns) Add(pattern string) {
	if pattern == "" {
		return
	}
	p.mu.Lock()
	p.set[pattern] = struct{}{}
	p.mu.Unlock()
}

func (p *Patterns) Remove(pattern string) {
	p.mu.Lock()
	delete(p.set, pattern)
	p.mu.Unlock()
}

func (p *Patterns) Clear() {
	p.mu.Lock()
	clear(p.set)
	p.mu.Unlock()
}

// List returns the patterns in sorted order.
func (p *Patterns) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.set))
	for pat := range p.set {
		out = append(out, pat)
	}
	sort.Strings(out)
	return out
}

// Match reports whether ns matches any pattern.
func (p *Patterns) Match(ns string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for pat := range p.set {
		if matchPattern(pat, ns) {
			return true
		}
	}
	return false
}

func matchPattern(pat, ns string) bool {
	if pat == ns {
		return true
	}
	if prefix, ok := strings.CutSuffix(pat, "*"); ok && strings.HasPrefix(ns, prefix) {
		return true
	}
	if suffix, ok := strings.CutPrefix(pat, "*"); ok && strings.HasSuffix(ns, suffix) {
		return true
	}
	return false
}
