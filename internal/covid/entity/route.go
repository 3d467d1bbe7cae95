package entity

// Route is one entry of the index navigation page.
type Route struct {
	Path        string
	Name        string
	Description string
}
