package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"poststudio/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSlot struct{}

func (brokenSlot) Load(ctx context.Context) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenSlot) Save(ctx context.Context, data []byte) error {
	return errors.New("disk on fire")
}
func (brokenSlot) Delete(ctx context.Context) error { return errors.New("disk on fire") }

func sampleDocument() *store.Document {
	return &store.Document{
		Chat: []store.ChatMessage{
			{Role: store.RoleSystem, Text: store.DefaultGreeting},
			{Role: store.RoleUser, Text: "маркетинг"},
			{Role: store.RoleAssistant, Text: "Создаю 2 пост(ов) по теме: маркетинг."},
		},
		Posts: []store.Post{
			{ID: "a", Title: "A", Body: "тело\nс переносом", CreatedAt: "01.05.2024, 09:30:00", Favorite: true, Image: "data:image/svg+xml;utf8,%3Csvg%3E"},
			{ID: "b", Title: "B", Body: "", CreatedAt: "01.05.2024, 09:30:00", Selected: true},
		},
		Bots:     []string{"SMM-бот", "SMM-бот"},
		Channels: []string{},
	}
}

func TestLoadEmptySlotReturnsDefaults(t *testing.T) {
	repo := NewDocumentRepository(NewMemorySlot())
	doc := repo.Load(context.Background())

	assert.Equal(t, store.NewDefaultDocument(), doc)
	require.Len(t, doc.Chat, 1)
	assert.Equal(t, store.RoleSystem, doc.Chat[0].Role)
	assert.Empty(t, doc.Posts)
	assert.Equal(t, []string{"SMM-бот", "Контент-мастер"}, doc.Bots)
	assert.Equal(t, []string{"@news_channel", "@promo_feed"}, doc.Channels)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(NewMemorySlot())
	doc := sampleDocument()

	require.NoError(t, repo.Save(ctx, doc))
	assert.Equal(t, doc, repo.Load(ctx))
}

func TestRoundTripThroughFile(t *testing.T) {
	ctx := context.Background()
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "nested", "studio.json"))
	require.NoError(t, err)
	repo := NewDocumentRepository(slot)

	assert.Equal(t, store.NewDefaultDocument(), repo.Load(ctx))

	doc := sampleDocument()
	require.NoError(t, repo.Save(ctx, doc))
	assert.Equal(t, doc, repo.Load(ctx))

	fresh, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.NewDefaultDocument(), fresh)
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", "[]", "42", "", `{"posts": "nope"}`} {
		slot := NewMemorySlot()
		require.NoError(t, slot.Save(ctx, []byte(raw)))

		doc := NewDocumentRepository(slot).Load(ctx)
		assert.Equal(t, store.NewDefaultDocument(), doc, "snapshot %q", raw)
	}
}

func TestUnavailableSlotFallsBackToDefaults(t *testing.T) {
	repo := NewDocumentRepository(brokenSlot{})
	assert.Equal(t, store.NewDefaultDocument(), repo.Load(context.Background()))
	assert.Error(t, repo.Save(context.Background(), sampleDocument()))

	doc, err := repo.Reset(context.Background())
	assert.Error(t, err)
	assert.Equal(t, store.NewDefaultDocument(), doc)
}

func TestLegacySnapshotIsMergedPerField(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Save(ctx, []byte(`{"posts":[{"id":"p1","title":"T","body":"B","date":"d","favorite":true,"selected":false,"image":""}]}`)))

	doc := NewDocumentRepository(slot).Load(ctx)
	assert.Equal(t, []store.ChatMessage{}, doc.Chat)
	assert.Equal(t, []string{}, doc.Bots)
	assert.Equal(t, []string{}, doc.Channels)
	require.Len(t, doc.Posts, 1)
	assert.Equal(t, store.Post{ID: "p1", Title: "T", Body: "B", CreatedAt: "d", Favorite: true}, doc.Posts[0])
}

func TestLoadRepairsMissingAndDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Save(ctx, []byte(`{"posts":[{"id":"x"},{"id":""},{"id":"x"},{"id":"y"}]}`)))

	repo := NewDocumentRepository(slot)
	n := 0
	repo.NewID = func() string {
		n++
		return fmt.Sprintf("fresh-%d", n)
	}

	doc := repo.Load(ctx)
	ids := []string{}
	for _, p := range doc.Posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"x", "fresh-1", "fresh-2", "y"}, ids)
}

func TestEncodeWritesEmptyArrays(t *testing.T) {
	data, err := Encode(&store.Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat":[],"posts":[],"bots":[],"channels":[]}`, string(data))
}

func TestEncodeUsesSnapshotKeys(t *testing.T) {
	data, err := Encode(&store.Document{Posts: []store.Post{{ID: "1", CreatedAt: "now"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat":[],"posts":[{"id":"1","title":"","body":"","date":"now","favorite":false,"selected":false,"image":""}],"bots":[],"channels":[]}`, string(data))
}
