package store

var seedAuthors = []string{
	"J. K. Rowling",
	"J. R. R. Tolkien",
	"Brent Weeks",
}

var seedBooks = []struct {
	name     string
	authorID int
}{
	{"Harry Potter and the Chamber of Secrets", 1},
	{"Harry Potter and the Prisoner of Azkaban", 1},
	{"Harry Potter and the Goblet of Fire", 1},
	{"The Fellowship of the Ring", 2},
	{"The Two Towers", 2},
	{"The Return of the King", 2},
	{"The Way of Shadows", 3},
	{"Beyond the Shadows", 3},
}
