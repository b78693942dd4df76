package router

import (
	"net/http"

	studioHandler "poststudio/internal/studio"
	"poststudio/internal/studio/service"
	"poststudio/middleware"
	"poststudio/socket"
)

func Setup(svc *service.StudioService, hub *socket.Hub, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	// WebSocket
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	// REST API
	h := studioHandler.NewStudioHandler(svc)

	mux.HandleFunc("/api/studio/view", h.GetView)
	mux.HandleFunc("/api/studio/filter", h.ToggleFavoritesFilter)
	mux.HandleFunc("/api/studio/reset", h.Reset)
	mux.HandleFunc("/api/studio/posts/generate", h.GeneratePosts)
	mux.HandleFunc("/api/studio/posts/favorite", h.ToggleFavorite)
	mux.HandleFunc("/api/studio/posts/select", h.ToggleSelected)
	mux.HandleFunc("/api/studio/posts/body", h.EditPostBody)
	mux.HandleFunc("/api/studio/posts/image", h.GenerateImage)
	mux.HandleFunc("/api/studio/images/generate", h.GenerateImages)
	mux.HandleFunc("/api/studio/bots/add", h.AddBot)
	mux.HandleFunc("/api/studio/bots/remove", h.RemoveBot)
	mux.HandleFunc("/api/studio/channels/add", h.AddChannel)
	mux.HandleFunc("/api/studio/channels/remove", h.RemoveChannel)
	mux.HandleFunc("/api/studio/publish/queue", h.QueueFavorites)

	return middleware.CORSMiddleware(corsOrigin)(middleware.LoggingMiddleware(mux))
}
