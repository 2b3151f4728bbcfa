// Package address resolves the symbolic targets a model can name (numeric
// element tags, or grid areas with a named subarea) into screen pixels.
package address
