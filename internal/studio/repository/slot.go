package repository

import (
	"context"
	"errors"
	"sync"
)

// DefaultSlotKey names the slot the studio snapshot lives in.
const DefaultSlotKey = "post-studio-data"

// ErrSlotEmpty is returned by Slot.Load when nothing has been saved yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single named place holding the serialized document.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// MemorySlot keeps the snapshot in process memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte{}, data...)
	return nil
}

func (s *MemorySlot) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
