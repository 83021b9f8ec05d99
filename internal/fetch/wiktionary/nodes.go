package wiktionary

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// headingText extracts a heading's title, preferring the .mw-headline
// span and ignoring edit-section links.
func headingText(n *html.Node) string {
	if hl := findByClass(n, "mw-headline"); hl != nil {
		return domain.NormalizeSpace(textExcluding(hl, nil))
	}
	return domain.NormalizeSpace(textExcluding(n, skipClasses("mw-editsection")))
}

// headingLevel returns 2..6 for h2..h6 element nodes and 0 otherwise.
func headingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	switch n.Data {
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func isElement(n *html.Node, name string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == name
}

func nodeAttr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeHasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(nodeAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// sectionNodes collects the sibling nodes following heading up to the
// next heading of the same or a higher level. In sectioned (Parsoid)
// markup the walk ends at the enclosing section boundary instead, which
// amounts to the same scope.
func sectionNodes(heading *html.Node) []*html.Node {
	level := headingLevel(heading)
	if level == 0 {
		return nil
	}
	var out []*html.Node
	for n := heading.NextSibling; n != nil; n = n.NextSibling {
		if l := headingLevel(n); l > 0 && l <= level {
			break
		}
		out = append(out, n)
	}
	return out
}

// firstHeadingChild returns the first h2..h6 among n's direct children.
func firstHeadingChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if headingLevel(c) > 0 {
			return c
		}
	}
	return nil
}

// findByClass returns the first descendant carrying the class, depth-first.
func findByClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && nodeHasClass(c, class) {
			return c
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

// textExcluding renders the text content of n's subtree, skipping any
// element subtree for which skip returns true. Text nodes are joined
// with single spaces; callers normalize further.
func textExcluding(n *html.Node, skip func(*html.Node) bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skip != nil && skip(node) {
			return
		}
		if node.Type == html.TextNode {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// skipTags builds a skip predicate matching element names.
func skipTags(names ...string) func(*html.Node) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(n *html.Node) bool { return set[n.Data] }
}

// skipClasses builds a skip predicate matching any of the given classes.
func skipClasses(classes ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range classes {
			if nodeHasClass(n, c) {
				return true
			}
		}
		return false
	}
}

func anySkip(preds ...func(*html.Node) bool) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, p := range preds {
			if p(n) {
				return true
			}
		}
		return false
	}
}

// textNodesUnder yields the raw text nodes of the subtree in document order.
func textNodesUnder(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				out = append(out, t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
