package domain

// Document is the cleaned text of one inbox file, split by page.
// It is the output of a TextExtractor and the input of the Segmenter.
type Document struct {
	// SourceID is the content identity hash of the originating file.
	SourceID string

	// SourceName is the file name the document was read from.
	SourceName string

	// Pages holds cleaned page text in page order.
	Pages []Page

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any
}

// Page is the cleaned text of a single page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the page text with NUL bytes removed.
	Text string
}

// CharCount returns the total number of characters across all pages.
func (d *Document) CharCount() int {
	total := 0
	for _, p := range d.Pages {
		total += len([]rune(p.Text))
	}
	return total
}
