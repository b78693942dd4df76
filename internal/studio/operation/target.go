package operation

import (
	"strings"

	"poststudio/store"
)

// AddBot appends the trimmed name. Blank names are ignored and false is
// returned. Duplicates are kept.
func AddBot(doc *store.Document, name string) bool {
	return appendName(&doc.Bots, name)
}

func AddChannel(doc *store.Document, name string) bool {
	return appendName(&doc.Channels, name)
}

// RemoveBot deletes the bot at index. The list is left untouched when index
// is out of range.
func RemoveBot(doc *store.Document, index int) (string, error) {
	return removeAt(&doc.Bots, index)
}

func RemoveChannel(doc *store.Document, index int) (string, error) {
	return removeAt(&doc.Channels, index)
}

func appendName(list *[]string, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	*list = append(*list, name)
	return true
}

func removeAt(list *[]string, index int) (string, error) {
	if index < 0 || index >= len(*list) {
		return "", ErrIndexOutOfRange
	}
	removed := (*list)[index]
	next := make([]string, 0, len(*list)-1)
	next = append(next, (*list)[:index]...)
	next = append(next, (*list)[index+1:]...)
	*list = next
	return removed, nil
}
