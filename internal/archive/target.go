// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/reference-archive/pkg/types"
)

const (
	htmlMIME    = "text/html"
	pdfMIME     = "application/pdf"
	snapshotExt = ".mhtml"
)

// TargetPath returns where reference id is archived inside dir for content
// of the given MIME type. HTML always becomes an MHTML snapshot; types
// without a known extension get a bare numeric name.
func TargetPath(id int, mimeType, dir string) string {
	name := strconv.Itoa(id)
	if mimeType == htmlMIME {
		return filepath.Join(dir, name+snapshotExt)
	}
	if ext := extensionFor(mimeType); ext != "" {
		return filepath.Join(dir, name+ext)
	}
	return filepath.Join(dir, name)
}

// DOITargetPath returns where the full text of a DOI reference is archived.
func DOITargetPath(id int, dir string) string {
	return TargetPath(id, pdfMIME, dir)
}

// KindOf classifies a MIME type the same way TargetPath names it.
func KindOf(mimeType string) types.ContentKind {
	switch {
	case mimeType == htmlMIME:
		return types.KindRenderedPage
	case extensionFor(mimeType) != "":
		return types.KindTypedBinary
	default:
		return types.KindUntypedBinary
	}
}

// extraExtensions covers types common in bibliographies that mimetype
// cannot sniff. Extensions follow mime-db.
var extraExtensions = map[string]string{
	"application/ld+json":                 ".jsonld",
	"application/x-bibtex":                ".bib",
	"application/x-ipynb+json":            ".ipynb",
	"application/x-latex":                 ".latex",
	"application/x-netcdf":                ".nc",
	"application/x-research-info-systems": ".ris",
	"application/x-sh":                    ".sh",
	"application/x-tex":                   ".tex",
	"application/x-yaml":                  ".yaml",
	"application/yaml":                    ".yaml",
	"text/markdown":                       ".md",
	"text/x-c":                            ".c",
	"text/x-markdown":                     ".md",
	"text/x-python":                       ".py",
	"text/yaml":                           ".yaml",
}

// extensionFor returns the preferred extension (with leading dot) for
// mimeType, or "" when the type is unknown. mimetype's registry is tried
// first, then extraExtensions, then the system MIME table.
func extensionFor(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	if ext, ok := extraExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
