package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"poststudio/internal/studio/model"
)

// Command names accepted by HandleCommand.
const (
	CmdGeneratePosts         = "generate_posts"
	CmdToggleFavoritesFilter = "toggle_favorites_filter"
	CmdGenerateImages        = "generate_images"
	CmdGenerateImage         = "generate_image"
	CmdAddBot                = "add_bot"
	CmdRemoveBot             = "remove_bot"
	CmdAddChannel            = "add_channel"
	CmdRemoveChannel         = "remove_channel"
	CmdQueueFavorites        = "queue_favorites"
	CmdEditPostBody          = "edit_post_body"
	CmdToggleFavorite        = "toggle_favorite"
	CmdToggleSelected        = "toggle_selected"
	CmdResetAll              = "reset_all"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidPayload = errors.New("invalid payload")
)

// HandleCommand decodes payload for the named command and runs it.
func (s *StudioService) HandleCommand(ctx context.Context, name string, payload json.RawMessage) (model.Result, error) {
	switch name {
	case CmdGeneratePosts:
		var req model.GeneratePostsRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		return s.GeneratePosts(ctx, req.Topic, string(req.Count)), nil
	case CmdToggleFavoritesFilter:
		var req model.FilterRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		return s.ToggleFavoritesFilter(req.FavoritesOnly), nil
	case CmdGenerateImages:
		return s.GenerateImagesForSelected(ctx), nil
	case CmdGenerateImage:
		var req model.PostRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		return s.GenerateImageForPost(ctx, req.PostID), nil
	case CmdAddBot, CmdAddChannel:
		var req model.NameRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		if name == CmdAddBot {
			return s.AddBot(ctx, req.Name), nil
		}
		return s.AddChannel(ctx, req.Name), nil
	case CmdRemoveBot, CmdRemoveChannel:
		var req model.IndexRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		if req.Index == nil {
			return model.Result{}, fmt.Errorf("%w: index is required", ErrInvalidPayload)
		}
		if name == CmdRemoveBot {
			return s.RemoveBot(ctx, *req.Index), nil
		}
		return s.RemoveChannel(ctx, *req.Index), nil
	case CmdQueueFavorites:
		var req model.QueueRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		return s.QueueFavorites(ctx, req.Bot, req.Channel), nil
	case CmdEditPostBody:
		var req model.EditBodyRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		return s.EditPostBody(ctx, req.PostID, req.Body), nil
	case CmdToggleFavorite, CmdToggleSelected:
		var req model.PostRequest
		if err := decode(payload, &req); err != nil {
			return model.Result{}, err
		}
		if name == CmdToggleFavorite {
			return s.ToggleFavorite(ctx, req.PostID), nil
		}
		return s.ToggleSelected(ctx, req.PostID), nil
	case CmdResetAll:
		return s.ResetAll(ctx), nil
	}
	return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
