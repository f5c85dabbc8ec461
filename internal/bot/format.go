package bot

import "strings"

const commandsReference = `Available commands:
/add_word <word> — add a stopword (admins only)
/remove_word <word> — remove a stopword (admins only)
/list_words — show the stopword list
/check_permissions — check the bot's rights in this group
/help — show this help`

const startText = "Hi! I delete messages that contain stopwords.\n\n" + commandsReference

const helpText = commandsReference

const setupInstructions = `For the bot to work correctly:
1. Add the bot as a group administrator
2. Grant the bot the right to delete messages`

// FormatCapabilityProblem explains why the bot cannot moderate and how to fix it.
func FormatCapabilityProblem(reason string) string {
	return "⚠️ " + reason + "\n\n" + setupInstructions
}

// FormatWordList formats a chat's stopwords for display.
func FormatWordList(words []string) string {
	if len(words) == 0 {
		return "The stopword list is empty."
	}
	var b strings.Builder
	b.WriteString("Stopwords for this chat:")
	for _, w := range words {
		b.WriteString("\n• ")
		b.WriteString(w)
	}
	return b.String()
}
