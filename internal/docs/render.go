package docs

import (
	"fmt"
	"strings"
)

// Preamble introduces the documentation block in the prompt.
const Preamble = "You also have access to the following documentations that describes the functionalities of UI " +
	"elements you can interact on the screen. These docs are crucial for you to determine the target of your " +
	"next action. You should always prioritize these documented elements for interaction:"

// Render describes the element carrying tag using every non-empty field.
func Render(tag int, r Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Documentation of UI element labeled with the numeric tag '%d':\n", tag)
	if r.Tap != "" {
		fmt.Fprintf(&b, "This UI element is clickable. %s\n\n", r.Tap)
	}
	if r.Text != "" {
		fmt.Fprintf(&b, "This UI element can receive text input. The text input is used for the following purposes: %s\n\n", r.Text)
	}
	if r.LongPress != "" {
		fmt.Fprintf(&b, "This UI element is long clickable. %s\n\n", r.LongPress)
	}
	if r.VSwipe != "" {
		fmt.Fprintf(&b, "This element can be swiped directly without tapping. You can swipe vertically on this UI element. %s\n\n", r.VSwipe)
	}
	if r.HSwipe != "" {
		fmt.Fprintf(&b, "This element can be swiped directly without tapping. You can swipe horizontally on this UI element. %s\n\n", r.HSwipe)
	}
	return b.String()
}
