package library

import (
	"context"
	"fmt"

	eventbus "github.com/hanpama/bookgraph/internal/eventbus"
	events "github.com/hanpama/bookgraph/internal/events"
	executor "github.com/hanpama/bookgraph/internal/executor"
	schema "github.com/hanpama/bookgraph/internal/schema"
	store "github.com/hanpama/bookgraph/internal/store"
)

// Resolver computes one field from its parent value and coerced arguments.
type Resolver func(ctx context.Context, source any, args map[string]any) (any, error)

// Runtime resolves the library schema against a store. It is safe for
// concurrent use.
type Runtime struct {
	store     *store.Store
	resolvers map[string]Resolver
}

var _ executor.Runtime = (*Runtime)(nil)

// NewRuntime returns a Runtime serving st.
func NewRuntime(st *store.Store) *Runtime {
	r := &Runtime{store: st}
	r.resolvers = map[string]Resolver{
		"Query.books":        r.queryBooks,
		"Query.authors":      r.queryAuthors,
		"Query.book":         r.queryBook,
		"Query.author":       r.queryAuthor,
		"Mutation.addBook":   r.addBook,
		"Mutation.addAuthor": r.addAuthor,
		"Book.author":        r.bookAuthor,
		"Author.books":       r.authorBooks,
	}
	return r
}

func (r *Runtime) ResolveField(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	if resolve, ok := r.resolvers[objectType+"."+field]; ok {
		return resolve(ctx, source, args)
	}
	return project(objectType, field, source)
}

func (r *Runtime) SerializeLeafValue(_ context.Context, typeName string, value any) (any, error) {
	if !schema.IsBuiltinScalar(typeName) {
		return nil, fmt.Errorf("no serializer for type %q", typeName)
	}
	return executor.SerializeBuiltinScalar(typeName, value)
}

// project reads a scalar field straight off the parent entity.
func project(objectType, field string, source any) (any, error) {
	switch src := source.(type) {
	case *store.Author:
		switch field {
		case "id":
			return src.ID, nil
		case "name":
			return src.Name, nil
		}
	case *store.Book:
		switch field {
		case "id":
			return src.ID, nil
		case "name":
			return src.Name, nil
		case "authorId":
			return src.AuthorID, nil
		}
	}
	return nil, fmt.Errorf("no resolver for %s.%s on %T", objectType, field, source)
}

func (r *Runtime) queryBooks(context.Context, any, map[string]any) (any, error) {
	return r.store.Books(), nil
}

func (r *Runtime) queryAuthors(context.Context, any, map[string]any) (any, error) {
	return r.store.Authors(), nil
}

func (r *Runtime) queryBook(_ context.Context, _ any, args map[string]any) (any, error) {
	id, ok := args["id"].(int)
	if !ok {
		return nil, nil
	}
	if b, found := r.store.Book(id); found {
		return b, nil
	}
	return nil, nil
}

func (r *Runtime) queryAuthor(_ context.Context, _ any, args map[string]any) (any, error) {
	id, ok := args["id"].(int)
	if !ok {
		return nil, nil
	}
	if a, found := r.store.Author(id); found {
		return a, nil
	}
	return nil, nil
}

func (r *Runtime) bookAuthor(_ context.Context, source any, _ map[string]any) (any, error) {
	b, ok := source.(*store.Book)
	if !ok {
		return nil, fmt.Errorf("Book.author: unexpected parent %T", source)
	}
	if a, found := r.store.Author(b.AuthorID); found {
		return a, nil
	}
	return nil, nil
}

func (r *Runtime) authorBooks(_ context.Context, source any, _ map[string]any) (any, error) {
	a, ok := source.(*store.Author)
	if !ok {
		return nil, fmt.Errorf("Author.books: unexpected parent %T", source)
	}
	return r.store.BooksByAuthor(a.ID), nil
}

// addBook does not check that authorId names an existing author.
func (r *Runtime) addBook(ctx context.Context, _ any, args map[string]any) (any, error) {
	authorID, _ := args["authorId"].(int)
	name, _ := args["name"].(string)
	b := r.store.AddBook(authorID, name)
	eventbus.Publish(ctx, events.EntityAdded{Kind: events.KindBook, ID: b.ID, Name: b.Name})
	return b, nil
}

func (r *Runtime) addAuthor(ctx context.Context, _ any, args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	a := r.store.AddAuthor(name)
	eventbus.Publish(ctx, events.EntityAdded{Kind: events.KindAuthor, ID: a.ID, Name: a.Name})
	return a, nil
}
