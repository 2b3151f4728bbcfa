package android

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/beevik/etree"

	"github.com/ai-agents-2030/AppAgent/internal/model"
)

var boundsRe = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)

// ParseBounds parses the uiautomator "[x1,y1][x2,y2]" form.
func ParseBounds(s string) (model.BBox, error) {
	m := boundsRe.FindStringSubmatch(s)
	if m == nil {
		return model.BBox{}, fmt.Errorf("invalid bounds %q", s)
	}
	v := make([]int, 4)
	for i := range v {
		v[i], _ = strconv.Atoi(m[i+1])
	}
	return model.BBox{{X: v[0], Y: v[1]}, {X: v[2], Y: v[3]}}, nil
}

// ParseHierarchy converts a uiautomator dump into nodes in document order.
func ParseHierarchy(data []byte) ([]model.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse hierarchy: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse hierarchy: empty document")
	}
	if root.Tag == "node" {
		n, err := convertNode(root)
		if err != nil {
			return nil, err
		}
		return []model.Node{n}, nil
	}
	return convertChildren(root)
}

// ParseHierarchyFile reads and parses a dump on the host.
func ParseHierarchyFile(path string) ([]model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}
	return ParseHierarchy(data)
}

func convertChildren(el *etree.Element) ([]model.Node, error) {
	children := el.SelectElements("node")
	if len(children) == 0 {
		return nil, nil
	}
	nodes := make([]model.Node, 0, len(children))
	for _, child := range children {
		n, err := convertNode(child)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func convertNode(el *etree.Element) (model.Node, error) {
	n := model.Node{
		Class:       el.SelectAttrValue("class", ""),
		ResourceID:  el.SelectAttrValue("resource-id", ""),
		ContentDesc: el.SelectAttrValue("content-desc", ""),
		Text:        el.SelectAttrValue("text", ""),
		Clickable:   el.SelectAttrValue("clickable", "false") == "true",
		Focusable:   el.SelectAttrValue("focusable", "false") == "true",
	}
	if idx := el.SelectAttrValue("index", ""); idx != "" {
		i, err := strconv.Atoi(idx)
		if err != nil {
			return n, fmt.Errorf("node index %q: %w", idx, err)
		}
		n.Index = i
	}
	if b := el.SelectAttrValue("bounds", ""); b != "" {
		bbox, err := ParseBounds(b)
		if err != nil {
			return n, err
		}
		n.BBox = bbox
	}
	children, err := convertChildren(el)
	if err != nil {
		return n, err
	}
	n.Children = children
	return n, nil
}
