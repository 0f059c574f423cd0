package pages

// Page is one screen of narrative text.
type Page struct {
	Title string
	Body  string
}

// Deck is an ordered set of pages with a cursor.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Deck struct {
	pages   []Page
	current int
}

// New creates a Deck positioned on the first page.
func New(pages []Page) *Deck {
	return &Deck{pages: pages}
}

// Current returns the page under the cursor, or nil if the deck is empty.
func (d *Deck) Current() *Page {
	if d.current < 0 || d.current >= len(d.pages) {
		return nil
	}
	return &d.pages[d.current]
}

// Advance moves the cursor forward by one. Returns false if already at the end.
func (d *Deck) Advance() bool {
	if d.current+1 >= len(d.pages) {
		return false
	}
	d.current++
	return true
}

// Previous moves the cursor back by one. Returns false if already at the start.
func (d *Deck) Previous() bool {
	if d.current <= 0 {
		return false
	}
	d.current--
	return true
}

// HasNext reports whether Advance would move.
func (d *Deck) HasNext() bool {
	return d.current+1 < len(d.pages)
}

// HasPrevious reports whether Previous would move.
func (d *Deck) HasPrevious() bool {
	return d.current > 0
}

// Len returns the total number of pages.
func (d *Deck) Len() int {
	return len(d.pages)
}

// CurrentIndex returns the zero-based index of the current page.
func (d *Deck) CurrentIndex() int {
	return d.current
}

// SetCurrentIndex moves the cursor directly. Out of range indices are ignored.
func (d *Deck) SetCurrentIndex(i int) {
	if i >= 0 && i < len(d.pages) {
		d.current = i
	}
}

// Page returns the page at the given index, or nil if out of range.
func (d *Deck) Page(i int) *Page {
	if i < 0 || i >= len(d.pages) {
		return nil
	}
	return &d.pages[i]
}
