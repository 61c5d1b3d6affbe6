package crawl

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Links are the anchor targets and image sources of one HTML page.
type Links struct {
	Hrefs  []string
	Images []string
}

// ExtractLinks tokenises an HTML page and collects every <a href> and
// <img src> in document order. Values are returned as written.
func ExtractLinks(r io.Reader) (Links, error) {
	var links Links
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return links, nil
			}
			return links, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.A:
				if v, ok := attr(tok, "href"); ok {
					links.Hrefs = append(links.Hrefs, v)
				}
			case atom.Img:
				if v, ok := attr(tok, "src"); ok {
					links.Images = append(links.Images, v)
				}
			}
		}
	}
}

func attr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// resolve makes ref absolute against base. Unparseable references are dropped.
func resolve(base *url.URL, ref string) (string, bool) {
	u, err := base.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// ItemLinks returns the distinct absolute links on page that point at an
// item page, in first-seen order.
func ItemLinks(page []byte, base *url.URL) []string {
	links, _ := ExtractLinks(bytes.NewReader(page))

	var out []string
	seen := make(map[string]struct{})
	for _, href := range links.Hrefs {
		if !strings.Contains(href, itemMarker) {
			continue
		}
		full, ok := resolve(base, href)
		if !ok {
			continue
		}
		if _, dup := seen[full]; dup {
			continue
		}
		seen[full] = struct{}{}
		out = append(out, full)
	}
	return out
}

// preferredExtensions ranks artwork formats, best first.
var preferredExtensions = []string{".svg", ".png", ".jpg", ".jpeg"}

// BestImage picks the artwork on an item page: the first SVG, else the
// first PNG, else the first JPEG, else the first artwork image of any kind.
// It returns "" when the page has no artwork.
func BestImage(page []byte, pageURL *url.URL) string {
	links, _ := ExtractLinks(bytes.NewReader(page))

	var candidates []string
	for _, src := range links.Images {
		full, ok := resolve(pageURL, src)
		if ok && strings.Contains(full, artworkMarker) {
			candidates = append(candidates, full)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	for _, ext := range preferredExtensions {
		for _, c := range candidates {
			p := strings.ToLower(c)
			if i := strings.IndexByte(p, '?'); i != -1 {
				p = p[:i]
			}
			if strings.HasSuffix(p, ext) {
				return c
			}
		}
	}
	return candidates[0]
}
