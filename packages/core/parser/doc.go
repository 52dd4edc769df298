// Package parser turns story text into the model types. The grammar is
// line-oriented: an optional free-text description, story meta tags, a
// narrative, then scenarios with their own meta, given-story references,
// steps, and examples tables.
package parser
