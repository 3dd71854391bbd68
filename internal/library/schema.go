// Package library defines the authors-and-books GraphQL schema and the
// runtime that resolves it against a store.Store.
package library

import (
	"fmt"

	schema "github.com/hanpama/bookgraph/internal/schema"
)

// Type names.
const (
	AuthorType   = "Author"
	BookType     = "Book"
	QueryType    = "Query"
	MutationType = "Mutation"
)

// NewSchema builds the schema. Author and Book refer to each other, so both
// shapes are registered before any field is attached.
func NewSchema() (*schema.Schema, error) {
	sch := schema.NewSchema("")

	author := schema.NewType(AuthorType, schema.TypeKindObject, "This represents an author")
	book := schema.NewType(BookType, schema.TypeKindObject, "This represents a book written by an author")
	query := schema.NewType(QueryType, schema.TypeKindObject, "Root Query")
	mutation := schema.NewType(MutationType, schema.TypeKindObject, "Root Mutation")

	sch.AddType(author).AddType(book).AddType(query).AddType(mutation).
		SetQueryType(QueryType).
		SetMutationType(MutationType)

	nonNullInt := func() *schema.TypeRef { return schema.NonNullType(schema.NamedType("Int")) }
	nonNullString := func() *schema.TypeRef { return schema.NonNullType(schema.NamedType("String")) }

	author.
		AddField(schema.NewField("id", "", nonNullInt())).
		AddField(schema.NewField("name", "", nonNullString())).
		AddField(schema.NewField("books", "", schema.ListType(schema.NamedType(BookType))))

	book.
		AddField(schema.NewField("id", "", nonNullInt())).
		AddField(schema.NewField("name", "", nonNullString())).
		AddField(schema.NewField("authorId", "", nonNullInt())).
		AddField(schema.NewField("author", "", schema.NamedType(AuthorType)))

	query.
		AddField(schema.NewField("books", "A list of all books", schema.ListType(schema.NamedType(BookType)))).
		AddField(schema.NewField("authors", "A list of all authors", schema.ListType(schema.NamedType(AuthorType)))).
		AddField(schema.NewField("book", "A single book", schema.NamedType(BookType)).
			AddArgument(schema.NewInputValue("id", "", schema.NamedType("Int")))).
		AddField(schema.NewField("author", "A single author", schema.NamedType(AuthorType)).
			AddArgument(schema.NewInputValue("id", "", schema.NamedType("Int"))))

	mutation.
		AddField(schema.NewField("addBook", "Adds a single book to the list of books", schema.NamedType(BookType)).
			AddArgument(schema.NewInputValue("authorId", "", nonNullInt())).
			AddArgument(schema.NewInputValue("name", "", nonNullString()))).
		AddField(schema.NewField("addAuthor", "Adds a single author to the list of authors", schema.NamedType(AuthorType)).
			AddArgument(schema.NewInputValue("name", "", nonNullString())))

	if err := sch.Validate(); err != nil {
		return nil, fmt.Errorf("library schema: %w", err)
	}
	return sch, nil
}
