package model

// Collect walks the tree in document order and returns every node that has
// the capability, converted to an Element.
func Collect(nodes []Node, c Capability) []Element {
	var result []Element
	for i := range nodes {
		collectRecursive(&nodes[i], nil, c, &result)
	}
	return result
}

func collectRecursive(n, parent *Node, c Capability, result *[]Element) {
	if n.Has(c) {
		*result = append(*result, Element{
			UID:       ElementUID(*n, parent),
			BBox:      n.BBox,
			Clickable: n.Clickable,
			Focusable: n.Focusable,
		})
	}
	for i := range n.Children {
		collectRecursive(&n.Children[i], n, c, result)
	}
}

// CountNodes returns the number of nodes in the tree.
func CountNodes(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + CountNodes(n.Children)
	}
	return total
}
