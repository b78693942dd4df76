package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"poststudio/internal/content"
	"poststudio/internal/publish"
	"poststudio/internal/studio/model"
	"poststudio/internal/studio/operation"
	"poststudio/internal/studio/projection"
	"poststudio/internal/studio/repository"
	"poststudio/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSlot struct {
	*repository.MemorySlot
	mu    sync.Mutex
	saves int
	fail  bool
}

func (s *countingSlot) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	s.saves++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return s.MemorySlot.Save(ctx, data)
}

func (s *countingSlot) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type recordingNotifier struct {
	mu    sync.Mutex
	views []projection.View
}

func (n *recordingNotifier) Notify(view projection.View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views = append(n.views, view)
}

func (n *recordingNotifier) last() projection.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.views[len(n.views)-1]
}

func newTestService(t *testing.T) (*StudioService, *countingSlot, *recordingNotifier) {
	t.Helper()
	slot := &countingSlot{MemorySlot: repository.NewMemorySlot()}
	factory := operation.NewPostFactory(content.DefaultTables(), content.NewLocale("ru-RU"))
	factory.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	svc := NewStudioService(context.Background(), repository.NewDocumentRepository(slot), factory, content.Placeholder{})
	notifier := &recordingNotifier{}
	svc.Notifier = notifier
	return svc, slot, notifier
}

func persisted(t *testing.T, slot *countingSlot) *store.Document {
	t.Helper()
	data, err := slot.Load(context.Background())
	require.NoError(t, err)
	doc, err := repository.Decode(data)
	require.NoError(t, err)
	return doc
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	svc, slot, notifier := newTestService(t)
	tables := content.DefaultTables()

	res := svc.GeneratePosts(ctx, "маркетинг", "2")
	require.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	require.Len(t, res.Outcome.Created, 2)

	doc := svc.Document()
	require.Len(t, doc.Posts, 2)
	assert.Equal(t, strings.Replace(tables.Templates[0], "{topic}", "маркетинг", 1), doc.Posts[0].Title)
	assert.Equal(t, strings.Replace(tables.Templates[1], "{topic}", "маркетинг", 1), doc.Posts[1].Title)
	assert.Equal(t, []store.ChatMessage{
		{Role: store.RoleSystem, Text: store.DefaultGreeting},
		{Role: store.RoleUser, Text: "маркетинг"},
		{Role: store.RoleAssistant, Text: "Создаю 2 пост(ов) по теме: маркетинг."},
	}, doc.Chat)

	res = svc.ToggleFavorite(ctx, doc.Posts[0].ID)
	require.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	afterFavorite := svc.Document()

	res = svc.QueueFavorites(ctx, "SMM-бот", "@news_channel")
	require.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	require.NotNil(t, res.Outcome.Intent)
	assert.Equal(t, 1, res.Outcome.Intent.Count)
	assert.Equal(t, "SMM-бот", res.Outcome.Intent.Bot)
	assert.Equal(t, "@news_channel", res.Outcome.Intent.Channel)
	assert.Equal(t, "Отправка 1 постов ботом SMM-бот в канал @news_channel.", res.Outcome.Message)

	assert.Equal(t, afterFavorite, svc.Document())
	assert.True(t, svc.Document().Posts[0].Favorite)
	assert.False(t, svc.Document().Posts[1].Favorite)

	assert.Equal(t, 3, slot.count())
	assert.Equal(t, svc.Document(), persisted(t, slot))
	assert.Len(t, notifier.views, 3)
	assert.Equal(t, res.View, notifier.last())
}

func TestGeneratePostsWithoutTopic(t *testing.T) {
	svc, slot, _ := newTestService(t)

	res := svc.GeneratePosts(context.Background(), "   ", "5")
	assert.Equal(t, model.OutcomeInfo, res.Outcome.Kind)
	assert.Equal(t, msgTopicRequired, res.Outcome.Message)

	doc := svc.Document()
	assert.Empty(t, doc.Posts)
	require.Len(t, doc.Chat, 2)
	assert.Equal(t, store.ChatMessage{Role: store.RoleSystem, Text: msgTopicRequired}, doc.Chat[1])
	assert.Equal(t, 1, slot.count())
	assert.True(t, res.Persisted)
}

func TestGeneratePostsCountInput(t *testing.T) {
	cases := map[string]int{"-5": 1, "0": 1, "1": 1, "20": 20, "21": 20, "1000": 20, "abc": 1}
	for raw, want := range cases {
		svc, _, _ := newTestService(t)
		res := svc.GeneratePosts(context.Background(), "x", raw)
		assert.Len(t, res.Outcome.Created, want, "count %q", raw)
		assert.Len(t, svc.Document().Posts, want, "count %q", raw)
	}
}

func TestNewBatchesArePrepended(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := svc.GeneratePosts(ctx, "первая", "2").Outcome.Created
	second := svc.GeneratePosts(ctx, "вторая", "3").Outcome.Created

	posts := svc.Document().Posts
	require.Len(t, posts, 5)
	assert.Equal(t, second, posts[:3])
	assert.Equal(t, first, posts[3:])
}

func TestFavoritesFilterOnlyReprojects(t *testing.T) {
	ctx := context.Background()
	svc, slot, notifier := newTestService(t)
	svc.GeneratePosts(ctx, "x", "3")
	posts := svc.Document().Posts
	svc.ToggleFavorite(ctx, posts[1].ID)
	saves := slot.count()

	res := svc.ToggleFavoritesFilter(true)
	assert.False(t, res.Persisted)
	assert.Equal(t, saves, slot.count())
	require.Len(t, res.View.Posts, 1)
	assert.Equal(t, posts[1].ID, res.View.Posts[0].ID)
	assert.True(t, notifier.last().FavoritesOnly)

	res = svc.ToggleFavorite(ctx, posts[1].ID)
	assert.Empty(t, res.View.Posts)
	assert.Equal(t, projection.EmptyPostsHint, res.View.EmptyHint)

	res = svc.ToggleFavoritesFilter(false)
	assert.Len(t, res.View.Posts, 3)
	assert.Len(t, svc.View().Posts, 3)
}

func TestGenerateImagesForSelected(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "3")

	res := svc.GenerateImagesForSelected(ctx)
	assert.Equal(t, model.OutcomeNothingSelected, res.Outcome.Kind)
	assert.Equal(t, msgNothingSelected, res.Outcome.Message)
	assert.Equal(t, 2, slot.count())

	posts := svc.Document().Posts
	svc.ToggleSelected(ctx, posts[0].ID)
	svc.ToggleSelected(ctx, posts[2].ID)

	res = svc.GenerateImagesForSelected(ctx)
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.Equal(t, 2, res.Outcome.Affected)
	assert.Equal(t, "Готово! Создано изображений: 2.", res.Outcome.Message)

	posts = svc.Document().Posts
	assert.Equal(t, content.Placeholder{}.Illustrate(posts[0].Title), posts[0].Image)
	assert.Empty(t, posts[1].Image)
	assert.NotEmpty(t, posts[2].Image)
	assert.Equal(t, posts, persisted(t, slot).Posts)
}

func TestGenerateImageForPost(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "2")
	id := svc.Document().Posts[1].ID

	res := svc.GenerateImageForPost(ctx, id)
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.NotEmpty(t, svc.Document().Posts[1].Image)
	assert.Empty(t, svc.Document().Posts[0].Image)

	res = svc.GenerateImageForPost(ctx, "missing")
	assert.Equal(t, model.OutcomeNotFound, res.Outcome.Kind)
}

func TestBotAndChannelCommands(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)

	res := svc.AddBot(ctx, "  ")
	assert.Equal(t, model.OutcomeInfo, res.Outcome.Kind)
	assert.Equal(t, 1, slot.count())

	res = svc.AddBot(ctx, " Новый ")
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.Equal(t, []string{"SMM-бот", "Контент-мастер", "Новый"}, res.View.Bots)

	res = svc.AddChannel(ctx, "@extra")
	assert.Equal(t, []string{"@news_channel", "@promo_feed", "@extra"}, res.View.Channels)

	res = svc.RemoveBot(ctx, 0)
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.Equal(t, []string{"Контент-мастер", "Новый"}, res.View.Bots)

	res = svc.RemoveBot(ctx, 5)
	assert.Equal(t, model.OutcomeNotFound, res.Outcome.Kind)
	assert.Equal(t, []string{"Контент-мастер", "Новый"}, res.View.Bots)

	res = svc.RemoveChannel(ctx, -1)
	assert.Equal(t, model.OutcomeNotFound, res.Outcome.Kind)
	res = svc.RemoveChannel(ctx, 2)
	assert.Equal(t, []string{"@news_channel", "@promo_feed"}, res.View.Channels)

	assert.Equal(t, 7, slot.count())
	assert.Equal(t, svc.Document(), persisted(t, slot))
}

func TestEditAndToggleUnknownPost(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "1")
	before := svc.Document()

	for _, res := range []model.Result{
		svc.EditPostBody(ctx, "missing", "text"),
		svc.ToggleFavorite(ctx, "missing"),
		svc.ToggleSelected(ctx, "missing"),
	} {
		assert.Equal(t, model.OutcomeNotFound, res.Outcome.Kind)
		assert.True(t, res.Persisted)
	}
	assert.Equal(t, before, svc.Document())
	assert.Equal(t, 4, slot.count())
}

func TestEditPostBodyPersists(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "1")
	id := svc.Document().Posts[0].ID

	res := svc.EditPostBody(ctx, id, "Новый текст")
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.Equal(t, "Новый текст", persisted(t, slot).Posts[0].Body)
}

func TestQueueFavoritesEmptyLeavesDocumentUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "2")
	before, err := repository.Encode(svc.Document())
	require.NoError(t, err)

	res := svc.QueueFavorites(ctx, "SMM-бот", "@news_channel")
	assert.Equal(t, model.OutcomeEmptyQueue, res.Outcome.Kind)
	assert.Equal(t, msgEmptyQueue, res.Outcome.Message)
	assert.Nil(t, res.Outcome.Intent)

	after, err := repository.Encode(svc.Document())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	stored, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, stored)
}

func TestQueueFavoritesIsRepeatable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "3")
	posts := svc.Document().Posts
	svc.ToggleFavorite(ctx, posts[0].ID)
	svc.ToggleFavorite(ctx, posts[2].ID)
	before := svc.Document()

	first := svc.QueueFavorites(ctx, "", "@promo_feed")
	second := svc.QueueFavorites(ctx, "", "@promo_feed")

	require.NotNil(t, first.Outcome.Intent)
	assert.Equal(t, first.Outcome.Intent, second.Outcome.Intent)
	assert.Equal(t, 2, first.Outcome.Intent.Count)
	assert.Equal(t, operation.Unspecified, first.Outcome.Intent.Bot)
	assert.Equal(t, before, svc.Document())
}

func TestQueueFavoritesSignsReceipt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	svc.Receipts = publish.NewSigner("secret", time.Hour)
	svc.GeneratePosts(ctx, "x", "1")
	svc.ToggleFavorite(ctx, svc.Document().Posts[0].ID)

	res := svc.QueueFavorites(ctx, "SMM-бот", "@news_channel")
	require.NotEmpty(t, res.Outcome.Receipt)

	intent, err := svc.Receipts.Verify(res.Outcome.Receipt)
	require.NoError(t, err)
	assert.Equal(t, *res.Outcome.Intent, intent)
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "4")
	svc.AddBot(ctx, "ещё")

	res := svc.ResetAll(ctx)
	assert.True(t, res.Persisted)

	doc := svc.Document()
	assert.Empty(t, doc.Posts)
	assert.Equal(t, []store.ChatMessage{{Role: store.RoleSystem, Text: store.DefaultGreeting}}, doc.Chat)
	assert.Equal(t, store.DefaultBots, doc.Bots)

	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}

func TestSaveFailureDoesNotAbortCommand(t *testing.T) {
	ctx := context.Background()
	svc, slot, notifier := newTestService(t)
	slot.fail = true

	res := svc.GeneratePosts(ctx, "x", "2")
	assert.False(t, res.Persisted)
	assert.Equal(t, model.OutcomeOK, res.Outcome.Kind)
	assert.Len(t, svc.Document().Posts, 2)
	assert.Len(t, notifier.views, 1)
}

func TestServiceLoadsPersistedDocument(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	svc.GeneratePosts(ctx, "x", "2")
	svc.ToggleSelected(ctx, svc.Document().Posts[0].ID)

	reloaded := NewStudioService(ctx, repository.NewDocumentRepository(slot), svc.Factory, content.Placeholder{})
	assert.Equal(t, svc.Document(), reloaded.Document())
}

func TestConcurrentCommandsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.GeneratePosts(ctx, fmt.Sprintf("тема %d", i), "3")
			svc.AddBot(ctx, fmt.Sprintf("бот %d", i))
		}(i)
	}
	wg.Wait()

	doc := svc.Document()
	assert.Len(t, doc.Posts, 48)
	assert.Len(t, doc.Bots, 18)
	assert.Len(t, doc.Chat, 33)

	seen := map[string]bool{}
	for _, p := range doc.Posts {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
	assert.Equal(t, 32, slot.count())
	assert.Equal(t, doc, persisted(t, slot))
}

func TestHandleCommand(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	res, err := svc.HandleCommand(ctx, CmdGeneratePosts, json.RawMessage(`{"topic":"SEO","count":"abc"}`))
	require.NoError(t, err)
	assert.Len(t, res.Outcome.Created, 1)

	res, err = svc.HandleCommand(ctx, CmdGeneratePosts, json.RawMessage(`{"topic":"SEO","count":3}`))
	require.NoError(t, err)
	assert.Len(t, res.Outcome.Created, 3)
	id := res.Outcome.Created[0].ID

	res, err = svc.HandleCommand(ctx, CmdToggleFavorite, json.RawMessage(`{"post_id":"`+id+`"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.View.Counters.Favorites)

	res, err = svc.HandleCommand(ctx, CmdToggleFavoritesFilter, json.RawMessage(`{"favorites_only":true}`))
	require.NoError(t, err)
	assert.Len(t, res.View.Posts, 1)

	res, err = svc.HandleCommand(ctx, CmdRemoveChannel, json.RawMessage(`{"index":0}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"@promo_feed"}, res.View.Channels)

	res, err = svc.HandleCommand(ctx, CmdQueueFavorites, json.RawMessage(`{"bot":"SMM-бот","channel":"@promo_feed"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Outcome.Intent.Count)

	res, err = svc.HandleCommand(ctx, CmdGenerateImages, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeNothingSelected, res.Outcome.Kind)

	res, err = svc.HandleCommand(ctx, CmdResetAll, nil)
	require.NoError(t, err)
	assert.Empty(t, res.View.Posts)

	_, err = svc.HandleCommand(ctx, "launch_rockets", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = svc.HandleCommand(ctx, CmdAddBot, json.RawMessage(`{"name":42}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestHandleCommandRequiresRemovalIndex(t *testing.T) {
	ctx := context.Background()
	svc, slot, _ := newTestService(t)
	before := svc.Document()

	for _, name := range []string{CmdRemoveBot, CmdRemoveChannel} {
		for _, payload := range []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{"index":null}`), nil} {
			_, err := svc.HandleCommand(ctx, name, payload)
			assert.ErrorIs(t, err, ErrInvalidPayload, "%s %s", name, payload)
		}
	}

	assert.Equal(t, before, svc.Document())
	assert.Equal(t, []string{"SMM-бот", "Контент-мастер"}, svc.View().Bots)
	assert.Equal(t, []string{"@news_channel", "@promo_feed"}, svc.View().Channels)
	assert.Zero(t, slot.saves)

	res, err := svc.HandleCommand(ctx, CmdRemoveBot, json.RawMessage(`{"index":1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"SMM-бот"}, res.View.Bots)
}
