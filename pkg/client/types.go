package client

// SearchResult is one raw record returned by POST /api/search. The server may
// return duplicate or partially filled records; SourceURL is the only field
// the client relies on for identity and may itself be missing.
type SearchResult struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	SourceURL       string  `json:"source_url"`
	Date            string  `json:"date"`
	RelevanceScore  float64 `json:"relevance_score"`
	Category        string  `json:"category,omitempty"`
	ExtractedAnswer string  `json:"extracted_answer,omitempty"`
}

// ActivityPoint is one weekday bucket of the server's ingestion activity.
type ActivityPoint struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

// SystemStats is the payload of GET /api/stats. Latency is overwritten
// locally by the poller with the measured round-trip time; the
// server-reported value is discarded.
type SystemStats struct {
	TotalDocuments int             `json:"total_documents"`
	StorageUsed    string          `json:"storage_used"`
	SystemHealth   string          `json:"system_health"`
	Latency        string          `json:"latency"`
	ActivityData   []ActivityPoint `json:"activity_data,omitempty"`
}

// StatusResponse is the generic {status, message} envelope returned by the
// scan and upload endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success reports whether the server accepted the operation.
func (r *StatusResponse) Success() bool {
	return r != nil && r.Status == "success"
}
