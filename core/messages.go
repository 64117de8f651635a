package core

import "fmt"

// Modeline messages set by the built-in commands.
const (
	ConfigReloadedMessage = "config reloaded"
)

func writtenMessage(path string, lines int) string {
	if lines == 1 {
		return fmt.Sprintf("%s: 1 line written", path)
	}
	return fmt.Sprintf("%s: %d lines written", path, lines)
}

func yankedMessage(selections int) string {
	if selections == 1 {
		return "selection yanked"
	}
	return fmt.Sprintf("%d selections yanked", selections)
}
