package gemini

import (
	"bytes"
	"strings"
)

// stripShortcodeLines drops body lines containing Hugo shortcode syntax
// ({{< ... >}} or {{% ... %}}). Shortcodes expand to HTML-oriented output
// with no Gemtext equivalent, so the whole line goes. Lines inside code
// fences are left alone; shortcode syntax there is being displayed, not
// invoked.
func stripShortcodeLines(body []byte) []byte {
	lines := bytes.Split(body, []byte("\n"))
	out := make([][]byte, 0, len(lines))

	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(string(line))
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if !inFence && (strings.Contains(trimmed, "{{<") || strings.Contains(trimmed, "{{%")) {
			continue
		}
		out = append(out, line)
	}
	return bytes.Join(out, []byte("\n"))
}
