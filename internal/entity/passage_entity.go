package entity

// RetrievalFilter narrows similarity search to a document/page subset.
// A zero-value filter means unrestricted search. DocPath matches by exact
// equality; Pages matches by set membership. No fuzzy matching.
type RetrievalFilter struct {
	DocPath string
	Pages   []int
}

func (f RetrievalFilter) IsZero() bool {
	return f.DocPath == "" && len(f.Pages) == 0
}

// RetrievedPassage is one unit of corpus text returned by similarity search,
// with its source metadata. Rank is the position in the returned order
// (0 = most relevant); ties are broken by index order.
type RetrievedPassage struct {
	Content string
	DocPath string
	Page    int
	Rank    int
	Score   float32
}
