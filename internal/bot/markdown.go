package bot

import "strings"

var markdownReplacer = strings.NewReplacer(
	`_`, `\_`, `*`, `\*`, `[`, `\[`, `]`, `\]`,
	`(`, `\(`, `)`, `\)`, `~`, `\~`, "`", "\\`",
	`>`, `\>`, `#`, `\#`, `+`, `\+`, `-`, `\-`,
	`=`, `\=`, `|`, `\|`, `{`, `\{`, `}`, `\}`,
	`.`, `\.`, `!`, `\!`,
)

// EscapeMarkdown escapes the characters Telegram's MarkdownV2 parse mode
// reserves, so arbitrary folder and file names render verbatim.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}
