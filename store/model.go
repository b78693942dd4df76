package store

// Role identifies who authored a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	DefaultGreeting = "Опишите тему постов и нажмите «Сгенерировать»."
)

var (
	DefaultBots     = []string{"SMM-бот", "Контент-мастер"}
	DefaultChannels = []string{"@news_channel", "@promo_feed"}
)

type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Post is a single draft. Image holds an image reference; empty means none
// has been generated yet. CreatedAt is kept under the "date" key so older
// snapshots stay readable.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"date"`
	Favorite  bool   `json:"favorite"`
	Selected  bool   `json:"selected"`
	Image     string `json:"image"`
}

// Document is the whole persisted state of a studio session.
type Document struct {
	Chat     []ChatMessage `json:"chat"`
	Posts    []Post        `json:"posts"`
	Bots     []string      `json:"bots"`
	Channels []string      `json:"channels"`
}

// NewDefaultDocument returns the state of a fresh session.
func NewDefaultDocument() *Document {
	return &Document{
		Chat:     []ChatMessage{{Role: RoleSystem, Text: DefaultGreeting}},
		Posts:    []Post{},
		Bots:     append([]string(nil), DefaultBots...),
		Channels: append([]string(nil), DefaultChannels...),
	}
}

// Normalize replaces nil collections with empty ones so that a document
// serializes to [] rather than null.
func (d *Document) Normalize() {
	if d.Chat == nil {
		d.Chat = []ChatMessage{}
	}
	if d.Posts == nil {
		d.Posts = []Post{}
	}
	if d.Bots == nil {
		d.Bots = []string{}
	}
	if d.Channels == nil {
		d.Channels = []string{}
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Chat:     append([]ChatMessage(nil), d.Chat...),
		Posts:    append([]Post(nil), d.Posts...),
		Bots:     append([]string(nil), d.Bots...),
		Channels: append([]string(nil), d.Channels...),
	}
	c.Normalize()
	return c
}

// FindPost returns the index of the post with the given id, or -1.
func (d *Document) FindPost(id string) int {
	for i := range d.Posts {
		if d.Posts[i].ID == id {
			return i
		}
	}
	return -1
}
