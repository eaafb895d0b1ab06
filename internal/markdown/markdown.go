// Package markdown rewrites fenced test snippets inside Markdown documents.
package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reLang = regexp.MustCompile(`^\s*(\w+)`)

// DefaultLangs are the fence languages treated as test snippets.
var DefaultLangs = []string{"js", "jsx", "ts", "tsx", "javascript", "typescript"}

type change struct {
	fcb  *ast.FencedCodeBlock
	code []byte
}

func (c *change) bounds() (int, int) {
	lines := c.fcb.Lines()
	if lines.Len() == 0 {
		return c.fcb.Info.Segment.Stop + 1, c.fcb.Info.Segment.Stop + 1
	}

	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop
}

func (c *change) sizeIncrement() int {
	start, stop := c.bounds()

	return len(c.code) - (stop - start)
}

// Rewrite parses source as Markdown and applies fn to the contents of
// every fenced code block whose language is in langs ([DefaultLangs]
// when nil). Changed blocks are spliced back byte-exactly; everything
// outside the fences is left untouched. The bool reports whether any
// block changed; when none did, the returned slice is nil.
func Rewrite(source []byte, langs []string, fn func(code []byte) []byte) (bool, []byte, error) {
	if langs == nil {
		langs = DefaultLangs
	}

	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	var changes []*change

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil || !langMatches(fcb, source, langs) {
			return ast.WalkContinue, nil
		}

		code := extractCode(fcb, source)

		rewritten := fn(code)
		if !bytes.Equal(code, rewritten) {
			changes = append(changes, &change{fcb: fcb, code: rewritten})
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return false, nil, err
	}

	if len(changes) == 0 {
		return false, nil, nil
	}

	return true, applyChanges(changes, source), nil
}

// Snippet is one fenced test snippet and where it starts in the document.
type Snippet struct {
	Lang      string
	Code      []byte
	StartLine int
}

// Snippets returns every fenced code block in source whose language is
// in langs ([DefaultLangs] when nil), without modifying the document.
func Snippets(source []byte, langs []string) ([]Snippet, error) {
	var snippets []Snippet

	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil || !langMatches(fcb, source, defaulted(langs)) {
			return ast.WalkContinue, nil
		}

		snippet := Snippet{Lang: lang(fcb, source), Code: extractCode(fcb, source)}

		lines := fcb.Lines()
		if lines.Len() > 0 {
			snippet.StartLine = lineAt(source, lines.At(0).Start)
		}

		snippets = append(snippets, snippet)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return snippets, nil
}

func defaulted(langs []string) []string {
	if langs == nil {
		return DefaultLangs
	}

	return langs
}

func lang(fcb *ast.FencedCodeBlock, source []byte) string {
	if fcb.Info == nil {
		return ""
	}

	sub := reLang.FindSubmatch(fcb.Info.Text(source))
	if sub == nil {
		return ""
	}

	return string(sub[1])
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func langMatches(fcb *ast.FencedCodeBlock, source []byte, langs []string) bool {
	found := lang(fcb, source)
	if found == "" {
		return false
	}

	for _, l := range langs {
		if found == l {
			return true
		}
	}

	return false
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buff.Write(line.Value(source))
	}

	return buff.Bytes()
}

func applyChanges(changes []*change, source []byte) []byte {
	resSize := len(source)

	for _, change := range changes {
		resSize += change.sizeIncrement()
	}

	result := make([]byte, resSize)

	var srcIdx, resIdx int

	for _, change := range changes {
		start, stop := change.bounds()

		copy(result[resIdx:], source[srcIdx:start])
		resIdx += (start - srcIdx)

		copy(result[resIdx:], change.code)
		resIdx += len(change.code)

		srcIdx = stop
	}

	copy(result[resIdx:], source[srcIdx:])

	return result
}
