// Package htmlclean implements the HTML cleaner / link extractor the
// crawler needs: given raw HTML, produce a link-safe version (only the
// document's anchor tags with their href values, outside script, style and
// head subtrees) and a plaintext version (the decoded text content of the
// document outside those same subtrees, with every tag stripped), plus the
// list of absolute URIs reachable from the link-safe version's anchors.
//
// Built on golang.org/x/net/html, a real tokenizing HTML5 parser — a
// regex-based scraper cannot correctly handle malformed markup, nested
// quoting, or entity decoding, all of which golang.org/x/net/html already
// solves.
package htmlclean

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements are stripped entirely (including their subtree) to
// produce the link-safe view: scripts and styles never contribute to
// either plaintext or to link extraction.
var blockElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

// Cleaner implements the crawler's cleaning/link-extraction contract.
type Cleaner struct{}

// New returns a Cleaner ready to use.
func New() *Cleaner { return &Cleaner{} }

// Clean parses rawHTML and returns (linkSafe, plaintext). linkSafe keeps
// anchor tags (needed by ExtractLinks) but drops script/style/head
// subtrees; plaintext strips every tag, leaving only decoded text content.
func (c *Cleaner) Clean(rawHTML string) (linkSafe, plaintext string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	var linkSafeBuilder, textBuilder strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			textBuilder.WriteString(n.Data)
			textBuilder.WriteByte(' ')
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			writeAnchorOpen(&linkSafeBuilder, n)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			linkSafeBuilder.WriteString("</a>")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return linkSafeBuilder.String(), strings.Join(strings.Fields(textBuilder.String()), " ")
}

func writeAnchorOpen(b *strings.Builder, n *html.Node) {
	b.WriteString("<a")
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			b.WriteString(` href="`)
			b.WriteString(html.EscapeString(attr.Val))
			b.WriteString(`"`)
		}
	}
	b.WriteString(">")
}

// ExtractLinks parses linkSafeHTML and returns every absolute URI
// resolvable from an <a href> target, resolved against base.
func (c *Cleaner) ExtractLinks(base, linkSafeHTML string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(linkSafeHTML))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				ref, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				resolved := baseURL.ResolveReference(ref)
				if resolved.Scheme == "http" || resolved.Scheme == "https" {
					links = append(links, resolved.String())
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}
