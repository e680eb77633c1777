// Package labels holds display metadata for goal category labels.
package labels

// Info is the display metadata of a label.
type Info struct {
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	ColorIndex int    `json:"color_index"`
	Known      bool   `json:"known"`
}

// DefaultIcon and DefaultColorIndex describe labels missing from a table.
const (
	DefaultIcon       = "🎯"
	DefaultColorIndex = -1
)

// Default is the built-in label table, in palette order.
var Default = []Info{
	{Label: "Personal Growth", Icon: "📈", ColorIndex: 0},
	{Label: "Humor", Icon: "😂", ColorIndex: 1},
	{Label: "Health & Fitness", Icon: "💪", ColorIndex: 2},
	{Label: "Recreation & Leisure", Icon: "🎮", ColorIndex: 3},
	{Label: "Family/Friends/Relationships", Icon: "❤️", ColorIndex: 4},
	{Label: "Finance", Icon: "💰", ColorIndex: 5},
	{Label: "Career", Icon: "🚀", ColorIndex: 6},
	{Label: "Education/Training", Icon: "📚", ColorIndex: 7},
	{Label: "Time Management/Organization", Icon: "⏳", ColorIndex: 8},
	{Label: "Philanthropic", Icon: "🌍", ColorIndex: 9},
}

// Table looks up label metadata.
type Table struct {
	order []string
	byKey map[string]Info
}

// NewTable builds a Table; later duplicates of a label are ignored.
func NewTable(entries []Info) *Table {
	t := &Table{byKey: make(map[string]Info, len(entries))}
	for _, e := range entries {
		if _, dup := t.byKey[e.Label]; dup {
			continue
		}
		e.Known = true
		t.byKey[e.Label] = e
		t.order = append(t.order, e.Label)
	}
	return t
}

// Lookup returns metadata for label, or a neutral default.
func (t *Table) Lookup(label string) Info {
	if info, ok := t.byKey[label]; ok {
		return info
	}
	return Info{Label: label, Icon: DefaultIcon, ColorIndex: DefaultColorIndex}
}

// Names returns the known labels in table order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

var defaultTable = NewTable(Default)

// Lookup resolves label against the built-in table.
func Lookup(label string) Info { return defaultTable.Lookup(label) }

// Names returns the built-in labels in palette order.
func Names() []string { return defaultTable.Names() }
