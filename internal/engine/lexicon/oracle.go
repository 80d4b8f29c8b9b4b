package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"rapidscore/internal/shared/observability"
)

// Oracle answers whether a token is a known dictionary word.
type Oracle interface {
	IsWord(token string) bool
}

// Cache memoizes an Oracle per lower-cased token for the lifetime of one
// analysis run. Concurrent lookups of the same token may both reach the
// backing oracle; the cached answer is identical either way.
type Cache struct {
	oracle Oracle

	mu    sync.RWMutex
	known map[string]bool
}

func NewCache(oracle Oracle) *Cache {
	return &Cache{
		oracle: oracle,
		known:  make(map[string]bool),
	}
}

func (c *Cache) IsWord(token string) bool {
	key := strings.ToLower(token)

	c.mu.RLock()
	known, ok := c.known[key]
	c.mu.RUnlock()
	if ok {
		observability.LexiconLookupsTotal.WithLabelValues("hit").Inc()
		return known
	}

	known = c.oracle.IsWord(key)
	observability.LexiconLookupsTotal.WithLabelValues("miss").Inc()

	c.mu.Lock()
	c.known[key] = known
	c.mu.Unlock()
	return known
}

// Len reports how many distinct tokens have been resolved.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.known)
}

// WordList is an in-memory dictionary loaded from a newline separated file.
type WordList struct {
	path  string
	words map[string]struct{}
}

func NewWordList(words ...string) *WordList {
	w := &WordList{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		w.add(word)
	}
	return w
}

// LoadWordList reads one word per line; blank lines and lines starting with
// '#' are ignored. An empty dictionary is an error.
func LoadWordList(path string) (*WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list %q: %w", path, err)
	}
	defer f.Close()

	w := NewWordList()
	w.path = path

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w.add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list %q: %w", path, err)
	}
	if len(w.words) == 0 {
		return nil, fmt.Errorf("word list %q contains no words", path)
	}
	return w, nil
}

func (w *WordList) add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	w.words[word] = struct{}{}
}

func (w *WordList) IsWord(token string) bool {
	for _, form := range baseForms(strings.ToLower(token)) {
		if _, ok := w.words[form]; ok {
			return true
		}
	}
	return false
}

func (w *WordList) Len() int {
	return len(w.words)
}

func (w *WordList) Path() string {
	return w.path
}
