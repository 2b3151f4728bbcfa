package model

// Node is one entry of the device's UI hierarchy as reported by the driver.
type Node struct {
	Index       int    `yaml:"index"                  json:"index"`
	Class       string `yaml:"class,omitempty"        json:"class,omitempty"`
	ResourceID  string `yaml:"resource_id,omitempty"  json:"resource_id,omitempty"`
	ContentDesc string `yaml:"content_desc,omitempty" json:"content_desc,omitempty"`
	Text        string `yaml:"text,omitempty"         json:"text,omitempty"`
	BBox        BBox   `yaml:"bbox"                   json:"bbox"`
	Clickable   bool   `yaml:"clickable,omitempty"    json:"clickable,omitempty"`
	Focusable   bool   `yaml:"focusable,omitempty"    json:"focusable,omitempty"`
	Children    []Node `yaml:"children,omitempty"     json:"children,omitempty"`
}

// Has reports whether the node carries the given capability.
func (n Node) Has(c Capability) bool {
	switch c {
	case Clickable:
		return n.Clickable
	case Focusable:
		return n.Focusable
	}
	return false
}
