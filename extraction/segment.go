package extraction

import "github.com/fioneer/fioneer/core"

// Segment splits turns into sections. Every Operator turn opens a new
// section that runs up to the next Operator turn or the end of the
// transcript. Turns before the first Operator turn belong to no section,
// so a transcript without any Operator turn yields no sections.
func Segment(turns []core.Turn) []core.Section {
	var sections []core.Section
	for _, turn := range turns {
		if turn.IsOperator() {
			sections = append(sections, core.Section{Index: len(sections)})
		}
		if len(sections) == 0 {
			continue
		}
		last := &sections[len(sections)-1]
		last.Turns = append(last.Turns, turn)
	}
	return sections
}
