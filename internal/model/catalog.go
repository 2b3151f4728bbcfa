package model

// Catalog is the ordered list of addressable elements for one round.
// The numeric tag shown to the model for Catalog[i] is i+1.
type Catalog []Element

// BuildCatalog seeds the catalog with every clickable element in tree order,
// then appends each focusable element whose center is farther than minDist
// from the center of every clickable element.
func BuildCatalog(tree []Node, minDist float64) Catalog {
	clickable := Collect(tree, Clickable)
	catalog := make(Catalog, 0, len(clickable))
	catalog = append(catalog, clickable...)

	for _, el := range Collect(tree, Focusable) {
		if el.Clickable {
			// already present via the clickable pass
			continue
		}
		if nearAny(el.Center(), clickable, minDist) {
			continue
		}
		catalog = append(catalog, el)
	}
	return catalog
}

func nearAny(p Point, elements []Element, minDist float64) bool {
	for _, e := range elements {
		if p.Dist(e.Center()) <= minDist {
			return true
		}
	}
	return false
}

// Tag returns the element for a 1-based numeric tag.
func (c Catalog) Tag(tag int) (Element, bool) {
	if tag < 1 || tag > len(c) {
		return Element{}, false
	}
	return c[tag-1], true
}
