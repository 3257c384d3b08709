package domain

// Keyword is a named term that can be linked to many tenants.
type Keyword struct {
	ID   string
	Name string
}

// Tenant is a monitored client organization with its keyword material.
type Tenant struct {
	ID             string
	Name           string
	RawKeywordText string
	LinkedKeywords []Keyword
	Active         bool
}

// Source is a scrape endpoint configured for the daily insights run.
type Source struct {
	ID       string
	Name     string
	URL      string
	Category string
}
