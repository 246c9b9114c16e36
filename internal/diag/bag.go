package diag

import (
	"sort"
)

// Bag collects non-fatal errors up to a limit.
type Bag struct {
	items []*SoulError
	max   int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add добавляет ошибку, учитывая лимит.
// Возвращает false, если ошибка не добавлена (достигнут лимит).
func (b *Bag) Add(err *SoulError) bool {
	if err == nil {
		return false
	}
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, err)
	return true
}

// Len returns the number of collected errors.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether anything was collected.
func (b *Bag) HasErrors() bool { return len(b.items) > 0 }

// Items возвращает read-only slice ошибок.
func (b *Bag) Items() []*SoulError {
	return b.items
}

// Merge объединяет ошибки из другого Bag, расширяя лимит при необходимости.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders errors by primary position then by code for stable output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		si, sj := b.items[i].Span(), b.items[j].Span()
		if si.Line != sj.Line {
			return si.Line < sj.Line
		}
		if si.Col != sj.Col {
			return si.Col < sj.Col
		}
		return b.items[i].Kind() < b.items[j].Kind()
	})
}

// Dedup drops errors with the same kind and primary span.
func (b *Bag) Dedup() {
	type key struct {
		kind ErrorKind
		line uint32
		col  uint32
	}
	seen := make(map[key]bool, len(b.items))
	out := b.items[:0]
	for _, e := range b.items {
		k := key{e.Kind(), e.Span().Line, e.Span().Col}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	b.items = out
}
