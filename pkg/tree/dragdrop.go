package tree

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// dragPayloadPrefix marks payloads published by a module row.
const dragPayloadPrefix = "pgstudio-module:"

// EncodeDragPayload is the drag source half: it publishes only the module id.
func EncodeDragPayload(id models.ID) string {
	return dragPayloadPrefix + id.String()
}

// DecodeDragPayload parses a payload produced by EncodeDragPayload.
func DecodeDragPayload(payload string) (models.ID, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(payload), dragPayloadPrefix)
	if !ok {
		return models.NilID, fmt.Errorf("not a module drag payload: %q", payload)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.NilID, fmt.Errorf("invalid module id in drag payload: %w", err)
	}
	return id, nil
}

// HandleDrop is the drop target half. It decodes the payload, resolves the
// target row and hands off to MoveModuleAt. targetID may be a module row,
// in which case above selects the side of the row, or a chapter row, which
// appends to that chapter. The hover indicator is always cleared. It
// reports whether a move was applied.
func (e *Editor) HandleDrop(payload string, targetID models.ID, above bool) bool {
	defer e.state.DropCompleted()

	moduleID, err := DecodeDragPayload(payload)
	if err != nil {
		return false
	}
	srcChapter, srcIndex, ok := e.FindModule(moduleID)
	if !ok {
		return false
	}

	if ci, ok := e.ChapterIndex(targetID); ok {
		e.MoveModule(moduleID, ci)
		return true
	}

	dstChapter, dstIndex, ok := e.FindModule(targetID)
	if !ok {
		return false
	}
	if moduleID == targetID {
		return false
	}

	at := dstIndex
	if !above {
		at++
	}
	// MoveModuleAt indexes the list after removal, which shifts rows below
	// the source up by one.
	if srcChapter == dstChapter && srcIndex < at {
		at--
	}
	e.MoveModuleAt(moduleID, dstChapter, at)
	return true
}
