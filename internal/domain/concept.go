// Package domain holds the data types and interface contracts shared across
// the ingestion pipeline: the queue row shape, probe results, encoding plans,
// and the external-collaborator interfaces (store, media tool, STT/LLM, PDF
// engine) that every component depends on.
package domain

// ConceptType is the declared or classified kind of a queued media item.
type ConceptType string

const (
	TypeVideo       ConceptType = "video"
	TypeAudio       ConceptType = "audio"
	TypePicture     ConceptType = "picture"
	TypeDocumentPDF ConceptType = "document_pdf"
	TypeOther       ConceptType = "other"
	TypeNone        ConceptType = "none"
)

// Concept is a single row of the queue table: an opaque id, a declared type,
// and a processed flag. The raw upload lives on disk at <uploadDir>/<ID>
// until the concept is committed.
type Concept struct {
	ID        string
	Type      ConceptType
	Processed bool
}

// ProcessingDir returns the per-concept output directory name relative to
// the upload directory.
func (c Concept) ProcessingDir() string {
	return c.ID + "_processing"
}
