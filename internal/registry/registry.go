package registry

import (
	"fmt"
	"sort"

	"github.com/vk/firmforge/internal/document"
)

// Registry is a mutable map of classified documents keyed by identity.
// It is not safe for concurrent use; the pipeline mutates it sequentially.
type Registry struct {
	docs map[string]*document.Document
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{docs: make(map[string]*document.Document)}
}

// Add inserts a document under its own name. Two documents sharing a name
// is always an authoring error, so Add refuses to overwrite.
func (r *Registry) Add(doc *document.Document) error {
	if existing, ok := r.docs[doc.Name]; ok {
		return fmt.Errorf("duplicate document %q (%s and %s)", doc.Name, existing.Source, doc.Source)
	}
	r.docs[doc.Name] = doc
	return nil
}

// Put replaces the entry under doc.Name, inserting if absent. Extension
// resolution uses it to memoize merged results.
func (r *Registry) Put(doc *document.Document) {
	r.docs[doc.Name] = doc
}

// Get returns the document with the given identity.
func (r *Registry) Get(name string) (*document.Document, bool) {
	doc, ok := r.docs[name]
	return doc, ok
}

// Delete removes the named document, if present.
func (r *Registry) Delete(name string) {
	delete(r.docs, name)
}

// Len returns the number of documents currently held.
func (r *Registry) Len() int {
	return len(r.docs)
}

// Names returns every document identity in lexical order. Pipeline stages
// iterate via Names so their work and their logs are deterministic.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Documents returns the held documents in lexical name order.
func (r *Registry) Documents() []*document.Document {
	docs := make([]*document.Document, 0, len(r.docs))
	for _, name := range r.Names() {
		docs = append(docs, r.docs[name])
	}
	return docs
}
