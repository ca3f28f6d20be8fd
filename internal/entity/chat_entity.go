package entity

// MetadataSourceURL is the canonical metadata key carrying a retrieved
// document's source link.
const MetadataSourceURL = "source_url"

// ChatTurn is one committed (question, answer) pair in a session's history.
// Turns are appended only after an answer fully completes and never mutated.
type ChatTurn struct {
	Question string
	Answer   string
}

// RetrievedDocument is one unit of retrieved evidence: chunk text plus the
// string metadata attached to it. It is owned by the retrieval call that
// produced it and is read-only afterwards.
type RetrievedDocument struct {
	Content  string
	Metadata map[string]string
}

// SourceURL returns the document's source link, or "" when absent.
func (d RetrievedDocument) SourceURL() string {
	return d.Metadata[MetadataSourceURL]
}
