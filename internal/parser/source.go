package parser

import (
	"strings"
)

// Snippet reconstructs the text of the node at loc from source: the contiguous
// comment block above it (blank lines between the block and the node are
// skipped), a blank separator line when there is a block,
// then the node's own lines. Each block is dedented independently.
func Snippet(source []byte, loc Location, marker string) string {
	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return ""
	}
	end := loc.EndLine
	if end < loc.Line {
		end = loc.Line
	}
	if end > len(lines) {
		end = len(lines)
	}
	code := dedent(lines[loc.Line-1 : end])

	var comments []string
	if marker != "" {
		i := loc.Line - 2
		for i >= 0 && strings.TrimSpace(lines[i]) == "" {
			i--
		}
		for ; i >= 0; i-- {
			trimmed := strings.TrimSpace(lines[i])
			if !strings.HasPrefix(trimmed, marker) {
				break
			}
			comments = append([]string{trimmed}, comments...)
		}
	}

	if len(comments) == 0 {
		return strings.Join(code, "\n")
	}
	out := make([]string, 0, len(comments)+len(code)+1)
	out = append(out, comments...)
	out = append(out, "")
	out = append(out, code...)
	return strings.Join(out, "\n")
}

// dedent strips the common leading whitespace of non-blank lines and any
// trailing whitespace
func dedent(lines []string) []string {
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		l = strings.TrimRight(l, " \t")
		if len(l) >= indent && indent > 0 {
			l = l[indent:]
		}
		out[i] = l
	}
	return out
}
