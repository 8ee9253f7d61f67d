package viewmodel

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	CurrentPath string
	// Kind is "public", "admin" or "none".
	Kind            string
	CSRFToken       string
	IsAuthenticated bool
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// DocumentTitle is the text of the <title> element.
func (l Layout) DocumentTitle(brand string) string {
	if l.Title == "" {
		return brand
	}
	return l.Title + " - " + brand
}
