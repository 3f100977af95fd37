package cookie

import (
	"container/list"
	"sync"

	"github.com/dlclark/regexp2"
)

const defaultPatternCacheSize = 64

// patterns is a LRU of the compiled regular expressions per cookie name.
type patterns struct {
	mu         sync.Mutex
	maxEntries int
	ll         *list.List
	cache      map[string]*list.Element
}

type patternEntry struct {
	key   string
	value *regexp2.Regexp
}

func newPatterns(maxEntries int) *patterns {
	return &patterns{
		maxEntries: maxEntries,
		ll:         list.New(),
		cache:      make(map[string]*list.Element),
	}
}

// getOrCompile returns the cached expression for key, compiling expr on a miss.
func (p *patterns) getOrCompile(key, expr string) (*regexp2.Regexp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ele, ok := p.cache[key]; ok {
		p.ll.MoveToFront(ele)
		return ele.Value.(*patternEntry).value, nil
	}

	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	p.cache[key] = p.ll.PushFront(&patternEntry{key, re})
	if p.maxEntries > 0 && p.ll.Len() > p.maxEntries {
		if oldest := p.ll.Back(); oldest != nil {
			p.ll.Remove(oldest)
			delete(p.cache, oldest.Value.(*patternEntry).key)
		}
	}
	return re, nil
}

// len returns the number of cached expressions.
func (p *patterns) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ll.Len()
}
