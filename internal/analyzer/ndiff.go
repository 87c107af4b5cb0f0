package analyzer

import (
	"strings"
)

// GroupedLine is a line of text tagged with the letter of the source it came from
type GroupedLine struct {
	Group string
	Text  string
}

// groupLetter returns A, B, ... Z, then AA, AB, ...
func groupLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return groupLetter(i/26-1) + groupLetter(i%26)
}

// SplitAndGroup splits each source into lines tagged with the source's group letter
func SplitAndGroup(sources []string) [][]GroupedLine {
	groups := make([][]GroupedLine, len(sources))
	for i, src := range sources {
		letter := groupLetter(i)
		lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
		grouped := make([]GroupedLine, len(lines))
		for j, l := range lines {
			grouped[j] = GroupedLine{Group: letter, Text: l}
		}
		groups[i] = grouped
	}
	return groups
}

// PadWithEmptyStrings pads every block with empty lines up to the longest block
func PadWithEmptyStrings(blocks [][]GroupedLine) [][]GroupedLine {
	longest := 0
	for _, b := range blocks {
		if len(b) > longest {
			longest = len(b)
		}
	}
	padded := make([][]GroupedLine, len(blocks))
	for i, b := range blocks {
		out := make([]GroupedLine, longest)
		copy(out, b)
		group := groupLetter(i)
		if len(b) > 0 {
			group = b[0].Group
		}
		for j := len(b); j < longest; j++ {
			out[j] = GroupedLine{Group: group}
		}
		padded[i] = out
	}
	return padded
}

// CollapseAndLabel zips equal-length blocks column by column. A column whose
// lines are all equal collapses to one line with a neutral three-space prefix;
// otherwise each non-empty line is emitted with its group letter.
func CollapseAndLabel(blocks [][]GroupedLine) [][]string {
	if len(blocks) == 0 {
		return nil
	}
	columns := make([][]string, 0, len(blocks[0]))
	for col := range blocks[0] {
		first := blocks[0][col].Text
		same := true
		for _, b := range blocks[1:] {
			if b[col].Text != first {
				same = false
				break
			}
		}
		if same {
			columns = append(columns, []string{"   " + first})
			continue
		}
		var labelled []string
		for _, b := range blocks {
			if b[col].Text == "" {
				continue
			}
			labelled = append(labelled, b[col].Group+": "+b[col].Text)
		}
		columns = append(columns, labelled)
	}
	return columns
}

// splitComments separates a block into its leading comment lines and code.
// Code starts at the first line without the marker; a block that does not
// start with a comment is all code.
func splitComments(lines []GroupedLine, marker string) (comment, code []GroupedLine) {
	n := -1
	for i, l := range lines {
		if marker == "" || !strings.HasPrefix(l.Text, marker) {
			n = i
			break
		}
	}
	switch {
	case n < 0:
		return lines, nil
	default:
		return lines[:n], lines[n:]
	}
}

// NWayDiff renders an n-way comparison of sources. Leading comment blocks and
// code are aligned separately so differing comment lengths do not skew the code.
func NWayDiff(marker string, sources ...string) string {
	grouped := SplitAndGroup(sources)
	comments := make([][]GroupedLine, len(grouped))
	codes := make([][]GroupedLine, len(grouped))
	for i, g := range grouped {
		comments[i], codes[i] = splitComments(g, marker)
	}

	var out []string
	for _, col := range CollapseAndLabel(PadWithEmptyStrings(comments)) {
		out = append(out, col...)
	}
	for _, col := range CollapseAndLabel(PadWithEmptyStrings(codes)) {
		out = append(out, col...)
	}
	return strings.Join(out, "\n")
}
