// Package projection derives read-only views from the studio document.
// Everything returned here is a copy; callers may keep or modify results
// without touching the document.
package projection

import "poststudio/store"

const (
	AuthorUser      = "Вы"
	AuthorAssistant = "GPT"

	EmptyPostsHint = "Постов пока нет. Начните с генерации через GPT чат."
)

// TranscriptEntry is a chat message with the name shown next to it.
type TranscriptEntry struct {
	Role   store.Role `json:"role"`
	Author string     `json:"author"`
	Text   string     `json:"text"`
}

// Counters summarize the post library regardless of the active filter.
type Counters struct {
	Total     int `json:"total"`
	Favorites int `json:"favorites"`
	Selected  int `json:"selected"`
}

// View is everything a client needs to render the studio.
type View struct {
	Chat          []TranscriptEntry `json:"chat"`
	Posts         []store.Post      `json:"posts"`
	FavoritesOnly bool              `json:"favorites_only"`
	EmptyHint     string            `json:"empty_hint,omitempty"`
	Bots          []string          `json:"bots"`
	Channels      []string          `json:"channels"`
	Counters      Counters          `json:"counters"`
}

// VisiblePosts returns all posts, or only favorites, in document order.
func VisiblePosts(doc *store.Document, favoritesOnly bool) []store.Post {
	posts := make([]store.Post, 0, len(doc.Posts))
	for _, p := range doc.Posts {
		if favoritesOnly && !p.Favorite {
			continue
		}
		posts = append(posts, p)
	}
	return posts
}

func BotOptions(doc *store.Document) []string {
	return append([]string{}, doc.Bots...)
}

func ChannelOptions(doc *store.Document) []string {
	return append([]string{}, doc.Channels...)
}

func ChatTranscript(doc *store.Document) []TranscriptEntry {
	entries := make([]TranscriptEntry, 0, len(doc.Chat))
	for _, m := range doc.Chat {
		author := AuthorAssistant
		if m.Role == store.RoleUser {
			author = AuthorUser
		}
		entries = append(entries, TranscriptEntry{Role: m.Role, Author: author, Text: m.Text})
	}
	return entries
}

func Count(doc *store.Document) Counters {
	c := Counters{Total: len(doc.Posts)}
	for _, p := range doc.Posts {
		if p.Favorite {
			c.Favorites++
		}
		if p.Selected {
			c.Selected++
		}
	}
	return c
}

// Build assembles the full view.
func Build(doc *store.Document, favoritesOnly bool) View {
	v := View{
		Chat:          ChatTranscript(doc),
		Posts:         VisiblePosts(doc, favoritesOnly),
		FavoritesOnly: favoritesOnly,
		Bots:          BotOptions(doc),
		Channels:      ChannelOptions(doc),
		Counters:      Count(doc),
	}
	if len(v.Posts) == 0 {
		v.EmptyHint = EmptyPostsHint
	}
	return v
}
