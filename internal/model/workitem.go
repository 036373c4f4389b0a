package model

// WorkItem is one URL accepted by the list parser, in input order.
// Index is the 1-based position among accepted items and also drives
// the default PDF_%03d.pdf file name.
type WorkItem struct {
	Index    int    `json:"index"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
	FileName string `json:"fileName"`
}

// ArtifactRecord is an item that was converted and downloaded
type ArtifactRecord struct {
	Index     int    `json:"index"`
	URL       string `json:"url"`
	Label     string `json:"label,omitempty"`
	FileName  string `json:"fileName"`
	LocalPath string `json:"-"`
}

// FailedItem records why one item produced no artifact
type FailedItem struct {
	Index    int    `json:"index"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// BatchResult aggregates a full scheduler run. Success and Failed are
// in completion order; Total always equals the number of input items.
type BatchResult struct {
	Success []ArtifactRecord `json:"success"`
	Failed  []FailedItem     `json:"failed"`
	Total   int              `json:"total"`
}
