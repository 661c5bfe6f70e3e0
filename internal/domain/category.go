package domain

type Category string

const (
	CategoryFantasy        Category = "Fantasy"
	CategoryScienceFiction Category = "Science-Fiction"
	CategoryMystery        Category = "Mystery"
	CategoryThriller       Category = "Thriller"
	CategoryRomance        Category = "Romance"
	CategoryHorror         Category = "Horror"
	CategoryBiography      Category = "Biography"
	CategoryHistory        Category = "History"
	CategoryPoetry         Category = "Poetry"
	CategoryChildren       Category = "Children"
	CategoryNonFiction     Category = "Non-Fiction"
)

var categories = map[Category]struct{}{
	CategoryFantasy:        {},
	CategoryScienceFiction: {},
	CategoryMystery:        {},
	CategoryThriller:       {},
	CategoryRomance:        {},
	CategoryHorror:         {},
	CategoryBiography:      {},
	CategoryHistory:        {},
	CategoryPoetry:         {},
	CategoryChildren:       {},
	CategoryNonFiction:     {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}
