// Package course holds the immutable course record loaded from the dataset.
package course

import "strings"

// Course is a single row of the course table. Courses are immutable once
// loaded and are identified by their index in the loaded corpus.
type Course struct {
	name        string
	university  string
	link        string
	category    string
	about       string
	description string
}

// New creates a course. Free-text fields (name, category, about, description)
// are lower-cased on construction; university and link are kept verbatim.
func New(name, university, link, category, about, description string) Course {
	return Course{
		name:        strings.ToLower(name),
		university:  university,
		link:        link,
		category:    strings.ToLower(category),
		about:       strings.ToLower(about),
		description: strings.ToLower(description),
	}
}

// Name returns the course name.
func (c Course) Name() string { return c.name }

// University returns the offering university.
func (c Course) University() string { return c.university }

// Link returns the course URL.
func (c Course) Link() string { return c.link }

// Category returns the course category.
func (c Course) Category() string { return c.category }

// About returns the short blurb.
func (c Course) About() string { return c.about }

// Description returns the long description.
func (c Course) Description() string { return c.description }

// CombinedText is the text representation used for vectorization:
// name + about + description, space-joined. It is a pure function of the
// source fields and is recomputed on every call, never stored.
func (c Course) CombinedText() string {
	return c.name + " " + c.about + " " + c.description
}
