package address

import "github.com/ai-agents-2030/AppAgent/internal/model"

// Index returns the center of the element carrying the 1-based numeric tag.
func Index(c model.Catalog, tag int) (model.Point, error) {
	el, ok := c.Tag(tag)
	if !ok {
		return model.Point{}, &Error{Kind: "tag", Value: tag, Max: len(c)}
	}
	return el.Center(), nil
}
