// Package goquery implements the deliver matchers and deliverers with CSS
// selector queries over parsed HTML documents.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deliver"
)

// page is a parsed owning document together with the clicked node.
type page struct {
	doc    *deliver.Document
	el     *deliver.Element
	root   *goquery.Document
	target *goquery.Selection
	base   *url.URL
}

// parsePage resolves the document owning el and parses it. Returns false
// when the owning frame is unknown or the HTML cannot be parsed.
func parsePage(doc *deliver.Document, el *deliver.Element) (*page, bool) {
	owner, ok := deliver.OwnerDocument(doc, el)
	if !ok {
		return nil, false
	}
	root, err := goquery.NewDocumentFromReader(strings.NewReader(owner.HTML))
	if err != nil {
		return nil, false
	}
	if el == nil {
		el = &deliver.Element{}
	}

	p := &page{doc: owner, el: el, root: root}
	if el.Selector != "" {
		p.target = root.Find(el.Selector).First()
	} else {
		p.target = root.Selection.Slice(0, 0)
	}
	p.base, _ = url.Parse(owner.URL)
	return p, true
}

// has reports whether any of the selectors match within sel.
func has(sel *goquery.Selection, selectors ...string) bool {
	for _, s := range selectors {
		if sel.Find(s).Length() > 0 {
			return true
		}
	}
	return false
}

// field is one extraction expression: a selector and the attribute holding
// the value. An empty attribute selects the node text.
type field struct {
	selector string
	attr     string
}

func text(selector string) field       { return field{selector: selector} }
func attr(selector, name string) field { return field{selector: selector, attr: name} }

// first evaluates fields in order against sel and returns the first
// non-empty cleaned value.
func first(sel *goquery.Selection, fields []field) string {
	for _, f := range fields {
		var v string
		found := sel
		if f.selector != "" {
			found = sel.Find(f.selector).First()
		}
		if found.Length() == 0 {
			continue
		}
		if f.attr == "" {
			v = found.Text()
		} else {
			v, _ = found.Attr(f.attr)
		}
		if v = deliver.CleanText(v); v != "" {
			return v
		}
	}
	return ""
}

// resolve resolves href against the page URL. Returns href unchanged when
// either cannot be parsed.
func (p *page) resolve(href string) string {
	if href == "" || p.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.base.ResolveReference(ref).String()
}

// meta returns the content of the first meta tag with the given property or
// name.
func (p *page) meta(key string) string {
	return first(p.root.Selection, []field{
		attr(`meta[property="`+key+`"]`, "content"),
		attr(`meta[name="`+key+`"]`, "content"),
	})
}

// hostIs reports whether rawURL's host equals host or is a subdomain of it.
func hostIs(rawURL string, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	h := strings.ToLower(u.Hostname())
	return h == host || strings.HasSuffix(h, "."+host)
}
