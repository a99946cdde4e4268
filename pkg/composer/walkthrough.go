package composer

import (
	"fmt"
	"strings"

	"github.com/playgroundstudio/pgstudio/pkg/models"
)

// RenderWalkthrough renders a walkthrough as markdown, dispatching on each
// item's kind. Invalid items are rejected before anything is rendered.
func RenderWalkthrough(w models.Walkthrough) (string, error) {
	if err := w.Validate(); err != nil {
		return "", err
	}

	var output strings.Builder
	for i, item := range w.Items {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("## %s\n\n", item.Title))

		switch item.Kind {
		case models.KindDescription:
			card := item.Description
			output.WriteString(card.Body + "\n")
			if card.Image != "" {
				output.WriteString(fmt.Sprintf("\n![](%s)\n", card.Image))
			}
			if card.ButtonTitle != "" {
				output.WriteString(fmt.Sprintf("\n[%s]\n", card.ButtonTitle))
			}
		case models.KindActionGroup:
			for _, c := range item.Actions.Cards {
				output.WriteString(fmt.Sprintf("- **%s**: %s [%s → %s]\n", c.Title, c.Description, c.ActionTitle, c.SystemName))
			}
		}
	}
	return output.String(), nil
}
