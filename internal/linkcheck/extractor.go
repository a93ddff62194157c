package linkcheck

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link represents a reference extracted from a rendered HTML page.
type Link struct {
	URL       string // raw attribute value
	Text      string // link text or alt text
	Tag       string // a, img, link, script, video, audio, source
	Attribute string // href or src
	Internal  bool   // true when the target lives inside the site
}

// ExtractLinks parses an HTML document and returns every reference
// worth checking: anchors, images, stylesheets, scripts and media.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []Link

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			extractElementLinks(n, &links)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

func extractElementLinks(n *html.Node, links *[]Link) {
	switch n.Data {
	case "a":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, Link{
				URL:       href,
				Text:      extractText(n),
				Tag:       "a",
				Attribute: "href",
				Internal:  isInternal(href),
			})
		}
	case "img":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, Link{
				URL:       src,
				Text:      getAttr(n, "alt"),
				Tag:       "img",
				Attribute: "src",
				Internal:  isInternal(src),
			})
		}
	case "link":
		if href := getAttr(n, "href"); href != "" {
			*links = append(*links, Link{
				URL:       href,
				Text:      getAttr(n, "rel"),
				Tag:       "link",
				Attribute: "href",
				Internal:  isInternal(href),
			})
		}
	case "script", "video", "audio", "source":
		if src := getAttr(n, "src"); src != "" {
			*links = append(*links, Link{
				URL:       src,
				Tag:       n.Data,
				Attribute: "src",
				Internal:  isInternal(src),
			})
		}
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

// isInternal reports whether a URL points inside the rendered site.
// Scheme-less and host-less references are internal.
func isInternal(linkURL string) bool {
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// shouldCheck filters references that are not verifiable targets:
// in-page anchors, special protocols and empty URLs.
func shouldCheck(link Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}

	if strings.HasPrefix(link.URL, "mailto:") ||
		strings.HasPrefix(link.URL, "tel:") ||
		strings.HasPrefix(link.URL, "javascript:") ||
		strings.HasPrefix(link.URL, "data:") {
		return false
	}

	return true
}
