package service

import (
	"context"
	"strings"
	"sync"

	"poststudio/internal/publish"
	"poststudio/internal/studio/model"
	"poststudio/internal/studio/operation"
	"poststudio/internal/studio/projection"
	"poststudio/internal/studio/repository"
	"poststudio/pkg/logger"
	"poststudio/store"
)

// Notifier receives every recomputed view.
type Notifier interface {
	Notify(view projection.View)
}

// StudioService owns the studio document and runs every command against it.
// Commands are serialized: each one validates its input, applies an
// operation, persists the document, recomputes the view and notifies
// subscribers before the next command starts.
type StudioService struct {
	Repo        *repository.DocumentRepository
	Factory     *operation.PostFactory
	Illustrator operation.Illustrator
	Receipts    *publish.Signer
	Notifier    Notifier

	mu            sync.Mutex
	doc           *store.Document
	favoritesOnly bool
}

// NewStudioService loads the document from repo.
func NewStudioService(ctx context.Context, repo *repository.DocumentRepository, factory *operation.PostFactory, illustrator operation.Illustrator) *StudioService {
	return &StudioService{
		Repo:        repo,
		Factory:     factory,
		Illustrator: illustrator,
		doc:         repo.Load(ctx),
	}
}

// View returns the current projection without running a command.
func (s *StudioService) View() projection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Build(s.doc, s.favoritesOnly)
}

// Document returns a copy of the current document.
func (s *StudioService) Document() *store.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Refresh pushes the current view to subscribers.
func (s *StudioService) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project(model.Outcome{Kind: model.OutcomeOK}, false)
}

func (s *StudioService) GeneratePosts(ctx context.Context, topic, count string) model.Result {
	return s.run(ctx, "generate_posts", func(doc *store.Document) model.Outcome {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			operation.AppendChatMessage(doc, store.RoleSystem, msgTopicRequired)
			return model.Outcome{Kind: model.OutcomeInfo, Message: msgTopicRequired}
		}
		n := operation.ParseCount(count)
		reply := s.Factory.Locale.Sprintf(msgGenerating, n, topic)
		operation.AppendChatMessage(doc, store.RoleUser, topic)
		operation.AppendChatMessage(doc, store.RoleAssistant, reply)
		created := s.Factory.GeneratePosts(doc, topic, n)
		return model.Outcome{Kind: model.OutcomeOK, Message: reply, Created: created, Affected: len(created)}
	})
}

// ToggleFavoritesFilter only changes what the view shows; nothing is persisted.
func (s *StudioService) ToggleFavoritesFilter(favoritesOnly bool) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoritesOnly = favoritesOnly
	return s.project(model.Outcome{Kind: model.OutcomeOK}, false)
}

func (s *StudioService) GenerateImagesForSelected(ctx context.Context) model.Result {
	return s.run(ctx, "generate_images", func(doc *store.Document) model.Outcome {
		n := operation.GenerateIllustrationsForSelected(doc, s.Illustrator)
		if n == 0 {
			return model.Outcome{Kind: model.OutcomeNothingSelected, Message: msgNothingSelected}
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: s.Factory.Locale.Sprintf(msgImagesReady, n), Affected: n}
	})
}

// GenerateImageForPost regenerates the illustration of a single post.
func (s *StudioService) GenerateImageForPost(ctx context.Context, postID string) model.Result {
	return s.run(ctx, "generate_image", func(doc *store.Document) model.Outcome {
		if err := operation.IllustratePost(doc, postID, s.Illustrator); err != nil {
			return postNotFound("generate_image", postID)
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: msgImageReady, Affected: 1}
	})
}

func (s *StudioService) AddBot(ctx context.Context, name string) model.Result {
	return s.run(ctx, "add_bot", func(doc *store.Document) model.Outcome {
		if !operation.AddBot(doc, name) {
			return model.Outcome{Kind: model.OutcomeInfo, Message: msgBotNameRequired}
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: s.Factory.Locale.Sprintf(msgBotAdded, strings.TrimSpace(name))}
	})
}

func (s *StudioService) AddChannel(ctx context.Context, name string) model.Result {
	return s.run(ctx, "add_channel", func(doc *store.Document) model.Outcome {
		if !operation.AddChannel(doc, name) {
			return model.Outcome{Kind: model.OutcomeInfo, Message: msgChannelRequired}
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: s.Factory.Locale.Sprintf(msgChannelAdded, strings.TrimSpace(name))}
	})
}

func (s *StudioService) RemoveBot(ctx context.Context, index int) model.Result {
	return s.run(ctx, "remove_bot", func(doc *store.Document) model.Outcome {
		removed, err := operation.RemoveBot(doc, index)
		if err != nil {
			logger.Sugar.Warnf("remove_bot: index %d: %v", index, err)
			return model.Outcome{Kind: model.OutcomeNotFound, Message: msgBotMissing}
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: s.Factory.Locale.Sprintf(msgBotRemoved, removed)}
	})
}

func (s *StudioService) RemoveChannel(ctx context.Context, index int) model.Result {
	return s.run(ctx, "remove_channel", func(doc *store.Document) model.Outcome {
		removed, err := operation.RemoveChannel(doc, index)
		if err != nil {
			logger.Sugar.Warnf("remove_channel: index %d: %v", index, err)
			return model.Outcome{Kind: model.OutcomeNotFound, Message: msgChannelMissing}
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: s.Factory.Locale.Sprintf(msgChannelRemoved, removed)}
	})
}

// QueueFavorites describes sending the favorite posts through bot to
// channel. Posts are left as they are, so the command can be repeated.
func (s *StudioService) QueueFavorites(ctx context.Context, bot, channel string) model.Result {
	return s.run(ctx, "queue_favorites", func(doc *store.Document) model.Outcome {
		intent, ok := operation.QueueFavorites(doc, bot, channel)
		if !ok {
			return model.Outcome{Kind: model.OutcomeEmptyQueue, Message: msgEmptyQueue}
		}
		outcome := model.Outcome{
			Kind:     model.OutcomeOK,
			Message:  s.Factory.Locale.Sprintf(msgQueued, intent.Count, intent.Bot, intent.Channel),
			Affected: intent.Count,
			Intent:   &intent,
		}
		if s.Receipts != nil {
			receipt, err := s.Receipts.Issue(intent)
			if err != nil {
				logger.Sugar.Errorf("queue_favorites: failed to sign receipt: %v", err)
			}
			outcome.Receipt = receipt
		}
		return outcome
	})
}

func (s *StudioService) EditPostBody(ctx context.Context, postID, body string) model.Result {
	return s.run(ctx, "edit_post_body", func(doc *store.Document) model.Outcome {
		if err := operation.SetPostBody(doc, postID, body); err != nil {
			return postNotFound("edit_post_body", postID)
		}
		return model.Outcome{Kind: model.OutcomeOK, Message: msgBodySaved, Affected: 1}
	})
}

func (s *StudioService) ToggleFavorite(ctx context.Context, postID string) model.Result {
	return s.run(ctx, "toggle_favorite", func(doc *store.Document) model.Outcome {
		if err := operation.ToggleFavorite(doc, postID); err != nil {
			return postNotFound("toggle_favorite", postID)
		}
		return model.Outcome{Kind: model.OutcomeOK, Affected: 1}
	})
}

func (s *StudioService) ToggleSelected(ctx context.Context, postID string) model.Result {
	return s.run(ctx, "toggle_selected", func(doc *store.Document) model.Outcome {
		if err := operation.ToggleSelected(doc, postID); err != nil {
			return postNotFound("toggle_selected", postID)
		}
		return model.Outcome{Kind: model.OutcomeOK, Affected: 1}
	})
}

// ResetAll deletes the snapshot and starts over from the default document.
// Deleting the slot is this command's persistence step.
func (s *StudioService) ResetAll(ctx context.Context) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Repo.Reset(ctx)
	if err != nil {
		logger.Sugar.Errorf("reset_all: %v", err)
	}
	s.doc = doc
	return s.project(model.Outcome{Kind: model.OutcomeOK, Message: msgReset}, err == nil)
}

func (s *StudioService) run(ctx context.Context, command string, apply func(doc *store.Document) model.Outcome) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := apply(s.doc)

	persisted := true
	if err := s.Repo.Save(ctx, s.doc); err != nil {
		persisted = false
		logger.Sugar.Errorf("%s: failed to persist document: %v", command, err)
	}
	return s.project(outcome, persisted)
}

// project must be called with s.mu held.
func (s *StudioService) project(outcome model.Outcome, persisted bool) model.Result {
	view := projection.Build(s.doc, s.favoritesOnly)
	if s.Notifier != nil {
		s.Notifier.Notify(view)
	}
	return model.Result{Outcome: outcome, View: view, Persisted: persisted}
}

func postNotFound(command, postID string) model.Outcome {
	logger.Sugar.Warnf("%s: %v: %s", command, operation.ErrPostNotFound, postID)
	return model.Outcome{Kind: model.OutcomeNotFound, Message: msgPostMissing}
}
