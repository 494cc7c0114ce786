package types

// Category identifies one of the supported result categories.
type Category string

const (
	CategoryText   Category = "text"
	CategoryImages Category = "images"
	CategoryNews   Category = "news"
	CategoryVideos Category = "videos"
	CategoryBooks  Category = "books"
)

// Categories lists all supported categories.
func Categories() []Category {
	return []Category{CategoryText, CategoryImages, CategoryNews, CategoryVideos, CategoryBooks}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryText, CategoryImages, CategoryNews, CategoryVideos, CategoryBooks:
		return true
	}
	return false
}
