package controller

// URLs maps logical wiki targets to their externally visible addresses.
// It satisfies the wikiword linker's URLBuilder.
type URLs struct{}

// PageURL returns the view address for a slug.
func (URLs) PageURL(slug string) string { return "/page/" + slug }

// EditURL returns the edit form address for a slug.
func (URLs) EditURL(slug string) string { return "/edit/" + slug }

// HistoryURL returns the revision history address for a slug.
func (URLs) HistoryURL(slug string) string { return "/history/" + slug }

// ChangesURL returns the diff view address for a slug.
func (URLs) ChangesURL(slug string) string { return "/changes/" + slug }
