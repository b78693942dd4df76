package operation

import (
	"strings"

	"poststudio/store"
)

// Unspecified stands in for a bot or channel the user did not choose.
const Unspecified = "не выбран"

// PublicationIntent describes what a publish action would send and where.
type PublicationIntent struct {
	Count   int      `json:"count"`
	Bot     string   `json:"bot"`
	Channel string   `json:"channel"`
	PostIDs []string `json:"post_ids"`
}

// QueueFavorites describes sending every favorite post through bot to
// channel. It reports false when there is nothing to queue. The document is
// never modified, so queuing can be repeated.
func QueueFavorites(doc *store.Document, bot, channel string) (PublicationIntent, bool) {
	var ids []string
	for _, p := range doc.Posts {
		if p.Favorite {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return PublicationIntent{}, false
	}
	return PublicationIntent{
		Count:   len(ids),
		Bot:     orUnspecified(bot),
		Channel: orUnspecified(channel),
		PostIDs: ids,
	}, true
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unspecified
	}
	return s
}
