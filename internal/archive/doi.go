// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/reference-archive/pkg/types"
)

// saveActionRe extracts the file path from a save button's onclick handler.
var saveActionRe = regexp.MustCompile(`^location\.href='(?P<path>.*)'$`)

// Mirror resolves DOIs to full-text PDFs through a bibliographic mirror.
type Mirror struct {
	baseURL string
	client  *http.Client
}

// NewMirror returns a Mirror that downloads resolved files with client.
func NewMirror(cfg types.MirrorConfig, client *http.Client) *Mirror {
	return &Mirror{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
	}
}

// LookupURL returns the mirror page for doi.
func (m *Mirror) LookupURL(doi string) string {
	return m.baseURL + "/" + doi
}

// Resolve renders the mirror page for doi, follows its save control to the
// PDF, and downloads it to path. A page that does not load in time is
// reported as ErrMirrorTimeout, since the mirror may be showing a CAPTCHA.
func (m *Mirror) Resolve(ctx context.Context, r Renderer, doi, path string) error {
	lookup := m.LookupURL(doi)

	page, err := r.RenderHTML(ctx, lookup)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w while accessing %s - this might be because of a captcha. "+
				"Alternatively, visit %s and download the file manually: %w",
				ErrMirrorTimeout, m.baseURL, lookup, err)
		}
		return err
	}

	action, ok := FindSaveAction(page)
	if !ok {
		return fmt.Errorf("%w: doi:%s", ErrReferenceNotFound, doi)
	}
	filePath, ok := SavePathFromAction(action)
	if !ok {
		return fmt.Errorf("%w: doi:%s", ErrReferenceNotFound, doi)
	}

	pdfURL, err := m.resolveFileURL(filePath)
	if err != nil {
		return fmt.Errorf("%w: doi:%s: %w", ErrReferenceNotFound, doi, err)
	}
	return Download(ctx, m.client, pdfURL, path)
}

// resolveFileURL resolves a save path against the mirror and drops the
// download parameter, which makes the mirror answer with a client-side
// download page instead of the file.
func (m *Mirror) resolveFileURL(filePath string) (string, error) {
	base, err := url.Parse(m.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing mirror URL: %w", err)
	}
	ref, err := url.Parse(filePath)
	if err != nil {
		return "", fmt.Errorf("parsing save path %q: %w", filePath, err)
	}
	u := base.ResolveReference(ref)
	q := u.Query()
	q.Del("download")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FindSaveAction returns the onclick handler of the first button whose text
// mentions "save", ignoring case.
func FindSaveAction(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	var action string
	var found bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Button {
			if strings.Contains(strings.ToLower(textOf(n)), "save") {
				for _, a := range n.Attr {
					if strings.EqualFold(a.Key, "onclick") {
						action, found = a.Val, true
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return action, found
}

// SavePathFromAction extracts the path from a "location.href='...'" handler.
func SavePathFromAction(action string) (string, bool) {
	m := saveActionRe.FindStringSubmatch(strings.TrimSpace(action))
	if m == nil {
		return "", false
	}
	path := m[saveActionRe.SubexpIndex("path")]
	return path, path != ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
