// Package store keeps the authors and books served by the API in memory.
//
// A Store is an explicit value created once at startup and handed to the
// resolvers; there is no package-level state. Lookups are linear scans over
// insertion-ordered slices. Entities are never updated or deleted, so an id
// assigned as count+1 is never reused.
package store

import "sync"

// Author is a person who wrote one or more books.
type Author struct {
	ID   int
	Name string
}

// Book references its author by id. AuthorID is not checked on write.
type Book struct {
	ID       int
	Name     string
	AuthorID int
}

// Store holds authors and books in insertion order.
type Store struct {
	mu      sync.RWMutex
	authors []*Author
	books   []*Book
}

// New returns an empty store.
func New() *Store { return &Store{} }

// NewSeeded returns a store populated with the sample catalogue.
func NewSeeded() *Store {
	s := New()
	for _, a := range seedAuthors {
		s.AddAuthor(a)
	}
	for _, b := range seedBooks {
		s.AddBook(b.authorID, b.name)
	}
	return s
}

// Authors returns every author in insertion order.
func (s *Store) Authors() []*Author {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Author, len(s.authors))
	copy(out, s.authors)
	return out
}

// Books returns every book in insertion order.
func (s *Store) Books() []*Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Book, len(s.books))
	copy(out, s.books)
	return out
}

// Author returns the first author with the given id.
func (s *Store) Author(id int) (*Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.authors {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Book returns the first book with the given id.
func (s *Store) Book(id int) (*Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// BooksByAuthor returns the books whose AuthorID matches, in insertion order.
// The result is never nil.
func (s *Store) BooksByAuthor(authorID int) []*Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Book, 0)
	for _, b := range s.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	return out
}

// AddAuthor appends an author with id = number of authors + 1.
func (s *Store) AddAuthor(name string) *Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Author{ID: len(s.authors) + 1, Name: name}
	s.authors = append(s.authors, a)
	return a
}

// AddBook appends a book with id = number of books + 1.
func (s *Store) AddBook(authorID int, name string) *Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &Book{ID: len(s.books) + 1, Name: name, AuthorID: authorID}
	s.books = append(s.books, b)
	return b
}

// Counts reports the number of stored authors and books.
func (s *Store) Counts() (authors, books int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), len(s.books)
}
