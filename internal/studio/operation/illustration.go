package operation

import "poststudio/store"

// Illustrator turns a label into an image reference.
type Illustrator interface {
	Illustrate(label string) string
}

// IllustratePost sets the post's image from its title, replacing any
// previous one.
func IllustratePost(doc *store.Document, postID string, illustrator Illustrator) error {
	i := doc.FindPost(postID)
	if i < 0 {
		return ErrPostNotFound
	}
	doc.Posts[i].Image = illustrator.Illustrate(doc.Posts[i].Title)
	return nil
}

// GenerateIllustrationsForSelected illustrates every selected post from its
// title and returns how many posts were touched.
func GenerateIllustrationsForSelected(doc *store.Document, illustrator Illustrator) int {
	affected := 0
	for i := range doc.Posts {
		if !doc.Posts[i].Selected {
			continue
		}
		doc.Posts[i].Image = illustrator.Illustrate(doc.Posts[i].Title)
		affected++
	}
	return affected
}
