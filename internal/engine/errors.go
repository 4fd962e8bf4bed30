package engine

import "errors"

// Sequencing errors. A host that forwards pointer events in order never
// sees them; they signal a caller bug.
var (
	ErrAlreadyCreating = errors.New("shape creation already in progress")
	ErrNotCreating     = errors.New("no shape creation in progress")
	ErrNotDragging     = errors.New("drag without a started drag")
	ErrNoShapeTool     = errors.New("tool does not create shapes")
	ErrSelectionGone   = errors.New("selected object no longer exists")
)
