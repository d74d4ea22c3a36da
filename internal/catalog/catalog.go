// Package catalog holds the subject/chapter/lesson tree the learner picks
// from, and the ordered selection built on top of it.
package catalog

import (
	"path"
	"strings"
)

// LessonRef identifies one lesson file. Path is relative to the lesson
// root (Subject/Chapter/File). Kind optionally names a preferred question
// kind and is empty when the lesson has no preference.
type LessonRef struct {
	Subject string
	Chapter string
	Path    string
	Name    string
	Kind    string
}

// Lesson is one file entry of a chapter as written in a catalog file.
type Lesson struct {
	File string `yaml:"file" json:"file"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Chapter groups lessons under a subject.
type Chapter struct {
	Name    string   `yaml:"name" json:"name"`
	Lessons []Lesson `yaml:"lessons" json:"lessons"`
}

// Subject is the top level of the tree.
type Subject struct {
	Name     string    `yaml:"name" json:"name"`
	Chapters []Chapter `yaml:"chapters" json:"chapters"`
}

// Catalog is the ordered lesson tree. It is built once at startup and
// not modified afterwards.
type Catalog struct {
	Subjects []Subject `yaml:"subjects" json:"subjects"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{Subjects: []Subject{
		{Name: "Mathematiques", Chapters: []Chapter{
			{Name: "Nombres_Premiers", Lessons: []Lesson{{File: "QCM_1.json"}}},
			{Name: "Les_Aires", Lessons: []Lesson{{File: "QCM_Aires.json"}}},
		}},
		{Name: "Histoire_Geo", Chapters: []Chapter{
			{Name: "La_Revolution_Francaise", Lessons: []Lesson{{File: "Paragraphe_Argumente_1.json", Kind: "essay"}}},
			{Name: "Les_Fleuves_du_Monde", Lessons: []Lesson{{File: "QCM_Geographie.json"}}},
		}},
		{Name: "Allemand", Chapters: []Chapter{
			{Name: "Vocabulaire_Facile", Lessons: []Lesson{{File: "QCM_Vocabulaire_Facile.json"}}},
			{Name: "Grammaire_Base", Lessons: []Lesson{{File: "QCM_Grammaire_Base.json"}}},
		}},
	}}
}

// EntryLevel tells the renderer how to draw an Entry.
type EntryLevel int

const (
	LevelSubject EntryLevel = iota
	LevelChapter
	LevelLesson
)

// Entry is one line of the rendered catalog. Ref is set for lesson lines only.
type Entry struct {
	Level EntryLevel
	Label string
	Ref   *LessonRef
}

// Selectable reports whether the entry is a lesson checkbox.
func (e Entry) Selectable() bool { return e.Level == LevelLesson }

// Render flattens the tree in declaration order: a subject header, then
// for each chapter a header followed by its lessons.
func Render(c Catalog) []Entry {
	var out []Entry
	for _, s := range c.Subjects {
		out = append(out, Entry{Level: LevelSubject, Label: s.Name})
		for _, ch := range s.Chapters {
			out = append(out, Entry{Level: LevelChapter, Label: DisplayName(ch.Name)})
			for _, l := range ch.Lessons {
				ref := s.ref(ch, l)
				out = append(out, Entry{Level: LevelLesson, Label: ref.Name, Ref: &ref})
			}
		}
	}
	return out
}

// Refs returns every lesson of the catalog in render order.
func (c Catalog) Refs() []LessonRef {
	var refs []LessonRef
	for _, s := range c.Subjects {
		for _, ch := range s.Chapters {
			for _, l := range ch.Lessons {
				refs = append(refs, s.ref(ch, l))
			}
		}
	}
	return refs
}

// Lookup finds a lesson by its relative path.
func (c Catalog) Lookup(p string) (LessonRef, bool) {
	p = strings.TrimPrefix(path.Clean(p), "/")
	for _, ref := range c.Refs() {
		if ref.Path == p {
			return ref, true
		}
	}
	return LessonRef{}, false
}

// DisplayName turns a directory-style name into a label.
func DisplayName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func (s Subject) ref(ch Chapter, l Lesson) LessonRef {
	name := l.Name
	if name == "" {
		name = l.File
	}
	return LessonRef{
		Subject: s.Name,
		Chapter: ch.Name,
		Path:    path.Join(s.Name, ch.Name, l.File),
		Name:    name,
		Kind:    l.Kind,
	}
}
