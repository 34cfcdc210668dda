package models

// SearchIndexEntry запись предварительно собранного поискового индекса.
type SearchIndexEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
}
