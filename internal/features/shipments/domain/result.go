package domain

// ListResult is what the list page shows for one request.
type ListResult struct {
	Records []Record
	// Error is the user-facing failure text, empty on success.
	Error string
	// Stale is set when Records is the session's previous collection.
	Stale bool
}

// PayloadResult is what the payload table shows.
type PayloadResult struct {
	Records []Record
	// Error is the fetch failure, empty on success.
	Error string
}
