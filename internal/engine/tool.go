package engine

import (
	"fmt"

	"github.com/inamate/paint/internal/shape"
)

type Tool int

const (
	ToolPen Tool = iota
	ToolRect
	ToolCircle
	ToolTransform
)

var toolNames = map[Tool]string{
	ToolPen:       "pen",
	ToolRect:      "rect",
	ToolCircle:    "circle",
	ToolTransform: "transform",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a tool name onto a Tool.
func ParseTool(s string) (Tool, error) {
	for tool, name := range toolNames {
		if name == s {
			return tool, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(text []byte) error {
	parsed, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ToolSettings is owned by the host and read on each pointer event.
type ToolSettings struct {
	Tool  Tool        `json:"tool"`
	Color shape.Color `json:"color"`
	Width int         `json:"width"`
}

func DefaultToolSettings() ToolSettings {
	return ToolSettings{Tool: ToolPen, Color: shape.Black, Width: 1}
}
