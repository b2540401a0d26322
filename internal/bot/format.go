package bot

import "strings"

// Telegram's HTML mode has no block tags, so paragraphs and lists become
// plain line breaks and bullets. Inline tags like <strong> pass through.
var blockTags = strings.NewReplacer(
	"<p>", "",
	"</p>", "\n\n",
	"<ul>", "",
	"</ul>", "\n",
	"<li>", "• ",
	"</li>", "\n",
)

func toTelegramHTML(html string) string {
	text := blockTags.Replace(strings.ReplaceAll(html, ">\n", ">"))
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
