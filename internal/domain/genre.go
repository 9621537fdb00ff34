package domain

// Genre is one level of a " / "-delimited breadcrumb. Path is unique; ParentID
// points at the previous level and is informational only.
type Genre struct {
	Entity
	Name     string `json:"name"`
	Path     string `json:"path"`
	ParentID string `json:"parentId,omitempty"`
}
