package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"poststudio/pkg/logger"
	"poststudio/store"

	"github.com/google/uuid"
)

var errNotAnObject = errors.New("snapshot is not a JSON object")

// DocumentRepository moves the studio document in and out of a Slot.
type DocumentRepository struct {
	Slot  Slot
	NewID func() string
}

func NewDocumentRepository(slot Slot) *DocumentRepository {
	return &DocumentRepository{Slot: slot, NewID: uuid.NewString}
}

// Load returns the persisted document, or the default document when the slot
// is empty, unreadable or holds something that does not parse. It never
// fails; problems are logged.
func (r *DocumentRepository) Load(ctx context.Context) *store.Document {
	data, err := r.Slot.Load(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return store.NewDefaultDocument()
	}
	if err != nil {
		logger.Sugar.Warnf("Snapshot unavailable, starting from defaults: %v", err)
		return store.NewDefaultDocument()
	}

	doc, err := Decode(data)
	if err != nil {
		logger.Sugar.Warnf("Snapshot corrupt, starting from defaults: %v", err)
		return store.NewDefaultDocument()
	}
	if n := r.repairIDs(doc); n > 0 {
		logger.Sugar.Warnf("Assigned fresh ids to %d posts with missing or duplicate ids", n)
	}
	return doc
}

// Save serializes the whole document and writes it to the slot.
func (r *DocumentRepository) Save(ctx context.Context, doc *store.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := r.Slot.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Reset deletes the snapshot and returns a fresh default document.
func (r *DocumentRepository) Reset(ctx context.Context) (*store.Document, error) {
	if err := r.Slot.Delete(ctx); err != nil {
		return store.NewDefaultDocument(), fmt.Errorf("delete snapshot: %w", err)
	}
	return store.NewDefaultDocument(), nil
}

// Encode renders doc as indented JSON. Nil collections are written as [].
func Encode(doc *store.Document) ([]byte, error) {
	c := *doc
	c.Normalize()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Fields missing from older snapshots come back
// empty rather than defaulted.
func Decode(data []byte) (*store.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotAnObject
	}
	var doc store.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (r *DocumentRepository) repairIDs(doc *store.Document) int {
	seen := make(map[string]bool, len(doc.Posts))
	repaired := 0
	for i := range doc.Posts {
		id := doc.Posts[i].ID
		if id == "" || seen[id] {
			id = r.NewID()
			doc.Posts[i].ID = id
			repaired++
		}
		seen[id] = true
	}
	return repaired
}
