package browser

import "sort"

// keyDefinition describes a named key as dispatched to the page.
type keyDefinition struct {
	Key     string
	Code    string
	KeyCode int64
	Text    string
}

// namedKeys is the closed set of keys Key understands. Key codes are the
// Windows virtual key codes the browser expects.
var namedKeys = map[string]keyDefinition{
	"Enter":      {Key: "Enter", Code: "Enter", KeyCode: 13, Text: "\r"},
	"Escape":     {Key: "Escape", Code: "Escape", KeyCode: 27},
	"Space":      {Key: " ", Code: "Space", KeyCode: 32, Text: " "},
	"ArrowLeft":  {Key: "ArrowLeft", Code: "ArrowLeft", KeyCode: 37},
	"ArrowUp":    {Key: "ArrowUp", Code: "ArrowUp", KeyCode: 38},
	"ArrowRight": {Key: "ArrowRight", Code: "ArrowRight", KeyCode: 39},
	"ArrowDown":  {Key: "ArrowDown", Code: "ArrowDown", KeyCode: 40},
	"Tab":        {Key: "Tab", Code: "Tab", KeyCode: 9},
	"Backspace":  {Key: "Backspace", Code: "Backspace", KeyCode: 8},
	"Delete":     {Key: "Delete", Code: "Delete", KeyCode: 46},
}

// KeyNames lists the named keys in sorted order.
func KeyNames() []string {
	names := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// keyCommands returns the commands that press name. Names outside the table
// are inserted literally as one char event.
func keyCommands(name string) []Command {
	def, ok := namedKeys[name]
	if !ok {
		return []Command{InputEnable(), InputChar(name)}
	}
	return []Command{InputEnable(), inputKeyDown(def), inputKeyUp(def)}
}
