package domain

// Metadata is the result of scraping a page's head tags. All fields are
// nullable: any fetch or parse failure yields a well-formed record with
// every field nil, never an error.
type Metadata struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FaviconURL  *string `json:"favicon_url"`
}

// Empty reports whether extraction produced nothing.
func (m Metadata) Empty() bool {
	return m.Title == nil && m.Description == nil && m.FaviconURL == nil
}
