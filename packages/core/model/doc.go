// Package model defines the parsed representation of stories: stories,
// scenarios, meta tags, examples tables, and given-story references.
// Values are immutable once built; mutating operations return copies.
package model
