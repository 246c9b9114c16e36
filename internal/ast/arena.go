package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores declaration bodies addressed by 1-based indices; 0 means "none".
type Arena[T any] struct {
	Data []T
}

// NewArena creates and returns an *Arena[T] whose internal slice is allocated with a capacity of capHint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		Data: make([]T, 0, capHint),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.Data = append(a.Data, value)
	n, err := safecast.Conv[uint32](len(a.Data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.Data) {
		return nil
	}
	return &a.Data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.Data
}

func (a *Arena[T]) Len() int {
	return len(a.Data)
}
