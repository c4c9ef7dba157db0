package tumblr

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deliver"
)

// Hidden form field names carrying the post id and the reblog key, in
// precedence order.
var (
	PostIDFields    = []string{"reblog_post_id", "post[reblog_post_id]", "post-id", "post_id"}
	ReblogKeyFields = []string{"reblog_key", "post[reblog_key]", "reblog-key"}
)

// scope is a region of the page searched for the token pair. Scopes are
// searched in order; the first one holding both tokens wins.
type scope struct {
	sel        *goquery.Selection
	hiddenOnly bool
}

// ScanReblogForm locates the repost tokens in a reblog page. The result maps
// FieldPostID and FieldReblogKey to the tokens, plus every other post[...]
// field of the form they were found in. sanitizer may be nil.
// Returns EPARSE if the page holds no token pair.
func ScanReblogForm(html string, sanitizer deliver.Sanitizer) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, deliver.Errorf(deliver.EPARSE, "failed to parse reblog page: %v", err)
	}

	var scopes []scope
	if edit := doc.Find("form#edit_post").First(); edit.Length() > 0 {
		scopes = append(scopes, scope{sel: edit})
	}
	doc.Find("form").Each(func(_ int, f *goquery.Selection) {
		if id, _ := f.Attr("id"); id == "edit_post" {
			return
		}
		scopes = append(scopes, scope{sel: f})
	})
	scopes = append(scopes, scope{sel: doc.Selection, hiddenOnly: true})

	for _, s := range scopes {
		postID := lookupField(s, PostIDFields)
		reblogKey := lookupField(s, ReblogKeyFields)
		if postID == "" || reblogKey == "" {
			continue
		}
		fields := map[string]string{
			deliver.FieldPostID:    postID,
			deliver.FieldReblogKey: reblogKey,
		}
		collectPostFields(s, fields, sanitizer)
		return fields, nil
	}

	if fields, ok := scanControlsFrame(doc); ok {
		return fields, nil
	}
	return nil, deliver.Errorf(deliver.EPARSE, "reblog page has no post id and reblog key")
}

// lookupField returns the first non-empty value of the named fields within
// the scope, trying names in table order.
func lookupField(s scope, names []string) string {
	for _, name := range names {
		sel := `input[name="` + name + `"]`
		if s.hiddenOnly {
			sel = `input[type="hidden"][name="` + name + `"]`
		}
		var v string
		s.sel.Find(sel).EachWithBreak(func(_ int, in *goquery.Selection) bool {
			v = strings.TrimSpace(in.AttrOr("value", ""))
			return v == ""
		})
		if v != "" {
			return v
		}
	}
	return ""
}

func isTokenField(name string) bool {
	for _, n := range PostIDFields {
		if n == name {
			return true
		}
	}
	for _, n := range ReblogKeyFields {
		if n == name {
			return true
		}
	}
	return false
}

// collectPostFields adds the scope's post[...] fields to fields. Later
// duplicates do not overwrite earlier values.
func collectPostFields(s scope, fields map[string]string, sanitizer deliver.Sanitizer) {
	add := func(name, value string) {
		if !strings.HasPrefix(name, "post[") || isTokenField(name) {
			return
		}
		if _, ok := fields[name]; ok {
			return
		}
		if sanitizer != nil {
			value = sanitizer.Sanitize(value)
		}
		fields[name] = value
	}

	inputs := `input[name^="post["]`
	if s.hiddenOnly {
		inputs = `input[type="hidden"][name^="post["]`
	}
	s.sel.Find(inputs).Each(func(_ int, in *goquery.Selection) {
		switch strings.ToLower(in.AttrOr("type", "text")) {
		case "checkbox", "radio":
			if _, checked := in.Attr("checked"); !checked {
				return
			}
		case "submit", "button", "file", "image":
			return
		}
		add(in.AttrOr("name", ""), in.AttrOr("value", ""))
	})
	if s.hiddenOnly {
		return
	}
	s.sel.Find(`textarea[name^="post["]`).Each(func(_ int, ta *goquery.Selection) {
		add(ta.AttrOr("name", ""), ta.Text())
	})
	s.sel.Find(`select[name^="post["]`).Each(func(_ int, sel *goquery.Selection) {
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		if opt.Length() == 0 {
			return
		}
		add(sel.AttrOr("name", ""), opt.AttrOr("value", strings.TrimSpace(opt.Text())))
	})
}

// scanControlsFrame reads pid and rk from an iframe source, as embedded by
// tumblr's blog controls.
func scanControlsFrame(doc *goquery.Document) (map[string]string, bool) {
	var fields map[string]string
	doc.Find("iframe[src]").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		u, err := url.Parse(f.AttrOr("src", ""))
		if err != nil {
			return true
		}
		q := u.Query()
		pid, rk := q.Get("pid"), q.Get("rk")
		if pid == "" || rk == "" {
			return true
		}
		fields = map[string]string{deliver.FieldPostID: pid, deliver.FieldReblogKey: rk}
		return false
	})
	return fields, fields != nil
}
