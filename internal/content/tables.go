// Package content holds the text corpora, the placeholder illustrator and the
// locale-aware formatting used to synthesize draft posts.
package content

// TopicPlaceholder is replaced by the user's topic in every template.
const TopicPlaceholder = "{topic}"

// FallbackTopic is used when a post is generated without a topic.
const FallbackTopic = "контент для вашего бренда"

// Tables are the injected corpora posts are built from. Both slices must be
// non-empty.
type Tables struct {
	Templates  []string
	Highlights []string
}

// DefaultTables returns the built-in Russian corpus.
func DefaultTables() Tables {
	return Tables{
		Templates: []string{
			"Пять быстрых идей, как {topic} прямо сегодня.",
			"{topic}: три шага, которые повышают результат уже на этой неделе.",
			"Почему сейчас лучшее время, чтобы заняться {topic}.",
			"Чек-лист: что нужно подготовить перед тем, как начать {topic}.",
			"История клиента: как {topic} помогло достичь цели за 30 дней.",
			"Мини-гайд: как объяснить {topic} команде за 5 минут.",
			"Ошибки, которые мы делали в {topic}, и как их избежать.",
			"Тренды: что происходит вокруг {topic} в 2024 году.",
		},
		Highlights: []string{
			"Добавьте конкретику: цифры, сроки, метрики.",
			"Призовите к действию: что подписчик должен сделать дальше.",
			"Сделайте текст разговорным и дружелюбным.",
			"Укажите выгоду: что получит аудитория.",
		},
	}
}
