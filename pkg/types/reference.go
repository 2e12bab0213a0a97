// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Reference is one numbered entry of a bibliography that points at
// archivable content.
type Reference struct {
	// ID is the bracketed reference number (e.g. 12 for "[12]").
	ID int `json:"id" yaml:"id"`

	// Source locates the cited content. It is always a URLSource or a DOISource.
	Source Source `json:"-" yaml:"-"`
}

// Source is the closed set of locators a Reference can carry. Callers
// dispatch on it with a type switch over URLSource and DOISource.
type Source interface {
	isSource()
	String() string
}

// URLSource is an absolute http or https URL.
type URLSource struct {
	URL string
}

func (URLSource) isSource() {}

func (s URLSource) String() string { return s.URL }

// DOISource is a Digital Object Identifier such as "10.1371/journal.pbio.0000057".
type DOISource struct {
	DOI string
}

func (DOISource) isSource() {}

func (s DOISource) String() string { return "doi:" + s.DOI }

// ContentKind classifies how a reference is stored in the archive.
type ContentKind string

const (
	// KindRenderedPage is an HTML page stored as an MHTML snapshot.
	KindRenderedPage ContentKind = "rendered-page"
	// KindTypedBinary is a download whose MIME type has a known extension.
	KindTypedBinary ContentKind = "typed-binary"
	// KindUntypedBinary is a download stored without a file extension.
	KindUntypedBinary ContentKind = "untyped-binary"
	// KindPDFFromDOI is full text resolved through the DOI mirror.
	KindPDFFromDOI ContentKind = "pdf-from-doi"
)
