package nav

import "strconv"

// Button is one keyboard action: a label and the command it triggers.
type Button struct {
	Label   string
	Command string
}

// View is a rendered report: text plus the keyboard of next steps.
type View struct {
	Text     string
	Keyboard [][]Button
}

func backRow(target string) []Button {
	return []Button{{Label: "⬅️ Back", Command: Format("back", target)}}
}

func rootRow() []Button {
	return []Button{{Label: "🏠 Main menu", Command: Format("back", "main")}}
}

// pagerRow builds previous/next buttons for a paginated view. prefix is the
// command without its trailing page index.
func pagerRow(prefix string, page int, hasPrev, hasNext bool) []Button {
	var row []Button
	if hasPrev {
		row = append(row, Button{Label: "◀️ Prev", Command: prefix + ":" + strconv.Itoa(page-1)})
	}
	if hasNext {
		row = append(row, Button{Label: "▶️ Next", Command: prefix + ":" + strconv.Itoa(page+1)})
	}
	return row
}
