package operation

import "poststudio/store"

// AppendChatMessage adds a message to the end of the transcript.
func AppendChatMessage(doc *store.Document, role store.Role, text string) {
	doc.Chat = append(doc.Chat, store.ChatMessage{Role: role, Text: text})
}
