package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"poststudio/internal/studio/model"
	"poststudio/internal/studio/service"
	"poststudio/pkg/logger"
)

type StudioHandler struct {
	Service *service.StudioService
}

func NewStudioHandler(service *service.StudioService) *StudioHandler {
	return &StudioHandler{Service: service}
}

func (h *StudioHandler) GetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.Service.View())
}

func (h *StudioHandler) GeneratePosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.GeneratePostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.Service.GeneratePosts(r.Context(), req.Topic, string(req.Count)))
}

func (h *StudioHandler) ToggleFavoritesFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.Service.ToggleFavoritesFilter(req.FavoritesOnly))
}

func (h *StudioHandler) GenerateImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.Service.GenerateImagesForSelected(r.Context()))
}

func (h *StudioHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(w, r, http.MethodPost)
	if !ok {
		return
	}
	writeJSON(w, h.Service.GenerateImageForPost(r.Context(), postID))
}

func (h *StudioHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(w, r, http.MethodPost)
	if !ok {
		return
	}
	writeJSON(w, h.Service.ToggleFavorite(r.Context(), postID))
}

func (h *StudioHandler) ToggleSelected(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(w, r, http.MethodPost)
	if !ok {
		return
	}
	writeJSON(w, h.Service.ToggleSelected(r.Context(), postID))
}

func (h *StudioHandler) EditPostBody(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.EditBodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.Service.EditPostBody(r.Context(), req.PostID, req.Body))
}

func (h *StudioHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	name, ok := nameBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Service.AddBot(r.Context(), name))
}

func (h *StudioHandler) AddChannel(w http.ResponseWriter, r *http.Request) {
	name, ok := nameBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Service.AddChannel(r.Context(), name))
}

func (h *StudioHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Service.RemoveBot(r.Context(), index))
}

func (h *StudioHandler) RemoveChannel(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.Service.RemoveChannel(r.Context(), index))
}

func (h *StudioHandler) QueueFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.QueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.Service.QueueFavorites(r.Context(), req.Bot, req.Channel))
}

func (h *StudioHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.Service.ResetAll(r.Context()))
}

func postIDParam(w http.ResponseWriter, r *http.Request, method string) (string, bool) {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		http.Error(w, "Missing postId parameter", http.StatusBadRequest)
		return "", false
	}
	return postID, true
}

func nameBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req model.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", false
	}
	return req.Name, true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return 0, false
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "Missing or invalid index parameter", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Handler: failed to encode response: %v", err)
	}
}
