package content

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

const maxLabelRunes = 60

const svgTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="640" height="360">
  <defs>
    <linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0%%" stop-color="#5b7cfa" />
      <stop offset="100%%" stop-color="#9b6bff" />
    </linearGradient>
  </defs>
  <rect width="640" height="360" fill="url(#bg)" />
  <rect x="32" y="32" width="576" height="296" rx="24" fill="rgba(255,255,255,0.2)" />
  <text x="50%%" y="50%%" text-anchor="middle" fill="#ffffff" font-size="26" font-family="Inter, sans-serif">
    %s
  </text>
  <text x="50%%" y="70%%" text-anchor="middle" fill="#ffffff" font-size="14" font-family="Inter, sans-serif">
    Gemini • иллюстрация к посту
  </text>
</svg>`

// Placeholder renders a gradient card with the label on it and returns it as
// a self-contained data URI. The same label always yields the same URI.
type Placeholder struct{}

func (Placeholder) Illustrate(label string) string {
	svg := fmt.Sprintf(svgTemplate, html.EscapeString(truncateRunes(label, maxLabelRunes)))
	return "data:image/svg+xml;utf8," + strings.ReplaceAll(url.QueryEscape(svg), "+", "%20")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
