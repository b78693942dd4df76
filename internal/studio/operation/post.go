package operation

import (
	"strings"
	"time"

	"poststudio/internal/content"
	"poststudio/store"

	"github.com/google/uuid"
)

const (
	MinPostCount = 1
	MaxPostCount = 20
)

// ClampCount bounds a requested batch size to [MinPostCount, MaxPostCount].
func ClampCount(n int) int {
	if n < MinPostCount {
		return MinPostCount
	}
	if n > MaxPostCount {
		return MaxPostCount
	}
	return n
}

// ParseCount reads the leading integer of raw ("12abc" is 12). Input without
// digits, and zero, count as one post. The result is clamped.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n <= MaxPostCount {
			n = n*10 + int(r-'0')
		}
	}
	if digits == 0 || n == 0 {
		return MinPostCount
	}
	if negative {
		n = -n
	}
	return ClampCount(n)
}

// PostFactory synthesizes draft posts. NewID and Now may be replaced in tests.
type PostFactory struct {
	Tables content.Tables
	Locale content.Locale
	NewID  func() string
	Now    func() time.Time
}

func NewPostFactory(tables content.Tables, locale content.Locale) *PostFactory {
	return &PostFactory{
		Tables: tables,
		Locale: locale,
		NewID:  uuid.NewString,
		Now:    time.Now,
	}
}

// NewPost builds the index-th post of a batch about topic.
func (f *PostFactory) NewPost(topic string, index int) store.Post {
	template := f.Tables.Templates[index%len(f.Tables.Templates)]
	highlight := f.Tables.Highlights[index%len(f.Tables.Highlights)]
	if topic == "" {
		topic = content.FallbackTopic
	}
	title := strings.Replace(template, content.TopicPlaceholder, topic, 1)
	return store.Post{
		ID:        f.NewID(),
		Title:     title,
		Body:      title + "\n\n" + highlight + "\n\nИдея: " + topic + " — подайте это через историю, цифры и понятный CTA.",
		CreatedAt: f.Locale.Timestamp(f.Now()),
	}
}

// GeneratePosts prepends a batch of count posts (clamped) to doc, keeping the
// batch in generation order, and returns the batch.
func (f *PostFactory) GeneratePosts(doc *store.Document, topic string, count int) []store.Post {
	count = ClampCount(count)
	created := make([]store.Post, 0, count)
	for i := 0; i < count; i++ {
		created = append(created, f.NewPost(topic, i))
	}

	posts := make([]store.Post, 0, len(created)+len(doc.Posts))
	posts = append(posts, created...)
	posts = append(posts, doc.Posts...)
	doc.Posts = posts

	return append([]store.Post(nil), created...)
}

func ToggleFavorite(doc *store.Document, postID string) error {
	i := doc.FindPost(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	doc.Posts[i].Favorite = !doc.Posts[i].Favorite
	return nil
}

func ToggleSelected(doc *store.Document, postID string) error {
	i := doc.FindPost(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	doc.Posts[i].Selected = !doc.Posts[i].Selected
	return nil
}

// SetPostBody overwrites the body. Invalid UTF-8 sequences are replaced with
// U+FFFD so the stored body survives a snapshot round trip unchanged.
func SetPostBody(doc *store.Document, postID, body string) error {
	i := doc.FindPost(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	doc.Posts[i].Body = strings.ToValidUTF8(body, "\uFFFD")
	return nil
}
