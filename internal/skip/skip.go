// Package skip removes it.skip and describe.skip blocks from test sources.
package skip

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
)

// Kind is the declaring call a skip block hangs off.
type Kind string

const (
	KindIt       Kind = "it"
	KindDescribe Kind = "describe"
)

// patternFormat matches one skip block: the opening call at a fixed
// indentation, then lines up to the first closing `});` at the same
// indentation, plus the final newline and at most one trailing blank
// line. %[1]s is the indentation, %[2]s the call kind. The label is the
// only capture group.
const patternFormat = `%[1]s%[2]s\.skip\(['"](.*?)['"],.*?\{\n(?:.*\n)*?%[1]s\}\);\n\n?`

var reMarker = regexp.MustCompile(`\.skip\(`)

type pass struct {
	kind   Kind
	indent int
	re     *regexp.Regexp
}

// Pass order matters for parity: both kinds at two spaces, then both at
// four.
var passes = []pass{
	mustPass(KindIt, 2),
	mustPass(KindDescribe, 2),
	mustPass(KindIt, 4),
	mustPass(KindDescribe, 4),
}

// Pattern builds the removal pattern for one call kind and indentation
// width.
func Pattern(kind Kind, indent int) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(patternFormat, spaces(indent), kind))
}

func mustPass(kind Kind, indent int) pass {
	re, err := Pattern(kind, indent)
	if err != nil {
		panic(err)
	}

	return pass{kind: kind, indent: indent, re: re}
}

func spaces(n int) string {
	return fmt.Sprintf("%*s", n, "")
}

// Remove deletes every matched skip block from source, applying the
// four passes in order. It returns the rewritten source, the number of
// blocks deleted, and how many of those spans looked suspicious: a span
// holding more than one .skip( marker likely swallowed a sibling block,
// because the closing `});` the pattern stopped at belonged to a later
// declaration.
func Remove(source []byte) ([]byte, int, int) {
	var removed, suspicious int

	for _, p := range passes {
		locs := p.re.FindAllIndex(source, -1)
		if locs == nil {
			continue
		}

		removed += len(locs)

		for _, loc := range locs {
			if len(reMarker.FindAll(source[loc[0]:loc[1]], -1)) > 1 {
				suspicious++
			}
		}

		source = p.re.ReplaceAll(source, nil)
	}

	return source, removed, suspicious
}

// Block describes one span a removal pass would delete.
type Block struct {
	Kind       Kind
	Label      string
	Indent     int
	StartLine  int
	EndLine    int
	Suspicious bool
}

// Scan reports every span the removal passes match against the original
// source, in source order, without modifying it. Unlike [Remove], the
// passes here do not feed into each other, so a block nested inside a
// larger matched block is reported on its own as well.
func Scan(source []byte) []Block {
	var blocks []Block

	for _, p := range passes {
		for _, loc := range p.re.FindAllSubmatchIndex(source, -1) {
			span := source[loc[0]:loc[1]]

			blocks = append(blocks, Block{
				Kind:       p.kind,
				Label:      string(source[loc[2]:loc[3]]),
				Indent:     p.indent,
				StartLine:  lineAt(source, loc[0]),
				EndLine:    lineAt(source, loc[1]-1),
				Suspicious: len(reMarker.FindAll(span, -1)) > 1,
			})
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartLine < blocks[j].StartLine
	})

	return blocks
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
