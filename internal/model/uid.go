package model

import (
	"fmt"
	"strings"
)

// maxDescLen bounds how much of content-desc goes into a UID.
const maxDescLen = 20

// nodeID derives a stable identifier for a single node: the resource id when
// present, otherwise class and size. Short content descriptions are appended.
func nodeID(n Node) string {
	var id string
	if n.ResourceID != "" {
		id = strings.NewReplacer(":", ".", "/", "_").Replace(n.ResourceID)
	} else {
		id = fmt.Sprintf("%s_%d_%d", n.Class, n.BBox.Width(), n.BBox.Height())
	}
	if n.ContentDesc != "" && len(n.ContentDesc) < maxDescLen {
		desc := strings.NewReplacer("/", "_", " ", "", ":", "_").Replace(n.ContentDesc)
		id += "_" + desc
	}
	return id
}

// ElementUID builds the UID for n given its parent (nil at the root).
// Documentation records are keyed by this value.
func ElementUID(n Node, parent *Node) string {
	id := nodeID(n)
	if parent != nil {
		id = nodeID(*parent) + "_" + id
	}
	return fmt.Sprintf("%s_%d", id, n.Index)
}
