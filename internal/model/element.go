package model

// Capability names an interaction attribute of a UI node.
type Capability string

const (
	Clickable Capability = "clickable"
	Focusable Capability = "focusable"
)

// Element represents an addressable UI element for one round.
type Element struct {
	UID       string `yaml:"uid"                 json:"uid"`
	BBox      BBox   `yaml:"bbox"                json:"bbox"`
	Clickable bool   `yaml:"clickable,omitempty" json:"clickable,omitempty"`
	Focusable bool   `yaml:"focusable,omitempty" json:"focusable,omitempty"`
}

// Center returns the center of the element's bounding box.
func (e Element) Center() Point {
	return e.BBox.Center()
}
