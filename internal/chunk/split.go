// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the recursive splitter cascade.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// paragraphSepRe matches a blank-line paragraph break, including any run of
// further blank lines.
var paragraphSepRe = regexp.MustCompile(`\n(?:[ \t\r]*\n)+`)

// span is a half-open byte range [start, end) of the source text.
type span struct {
	start, end int
}

// splitter carves byte ranges of one document. Every method returns ranges
// that tile their input: the first starts at the input start, the last ends
// at the input end, and each range starts no later than its predecessor
// ends.
type splitter struct {
	text       string
	size       int
	overlap    int
	separators []string
}

func (s *splitter) runes(sp span) int {
	return utf8.RuneCountInString(s.text[sp.start:sp.end])
}

// splitSection packs blank-line delimited paragraphs of sp into ranges of
// at most size runes. Paragraphs that are too large on their own go through
// the recursive splitter.
func (s *splitter) splitSection(sp span) []span {
	if s.runes(sp) <= s.size {
		return []span{sp}
	}

	var (
		out     []span
		cur     span
		curLen  int
		pending bool
	)
	flush := func() {
		if pending {
			out = append(out, cur)
			pending = false
			curLen = 0
		}
	}

	for _, p := range s.paragraphs(sp) {
		n := s.runes(p)
		if n > s.size {
			flush()
			out = append(out, s.recursive(p, s.separators)...)
			continue
		}
		if pending && curLen+n > s.size {
			flush()
		}
		if !pending {
			cur = span{start: p.start}
			pending = true
		}
		cur.end = p.end
		curLen += n
	}
	flush()
	return out
}

// paragraphs cuts sp after every paragraph break. Each break stays with the
// paragraph before it.
func (s *splitter) paragraphs(sp span) []span {
	var out []span
	cur := sp.start
	for _, m := range paragraphSepRe.FindAllStringIndex(s.text[sp.start:sp.end], -1) {
		end := sp.start + m[1]
		out = append(out, span{cur, end})
		cur = end
	}
	if cur < sp.end {
		out = append(out, span{cur, sp.end})
	}
	return out
}

// recursive splits sp on the first separator of seps that occurs in it,
// recursing with the remaining separators into pieces that are still too
// large, and merges small neighbouring pieces with overlap. The empty
// separator cuts on rune boundaries. When no separator applies, sp is
// returned whole even if it exceeds size.
func (s *splitter) recursive(sp span, seps []string) []span {
	if s.runes(sp) <= s.size {
		return []span{sp}
	}

	chunk := s.text[sp.start:sp.end]
	sep, rest, found := "", []string(nil), false
	for i, c := range seps {
		if c == "" || strings.Contains(chunk, c) {
			sep, rest, found = c, seps[i+1:], true
			break
		}
	}
	if !found {
		return []span{sp}
	}
	if sep == "" {
		return s.hardSplit(sp)
	}

	var out, window []span
	for _, p := range cutAfter(s.text, sp, sep) {
		if s.runes(p) > s.size {
			out = append(out, s.merge(window)...)
			window = nil
			out = append(out, s.recursive(p, rest)...)
			continue
		}
		window = append(window, p)
	}
	return append(out, s.merge(window)...)
}

// merge packs contiguous pieces into windows of at most size runes. Each new
// window re-uses trailing pieces of the previous one worth at most overlap
// runes.
func (s *splitter) merge(pieces []span) []span {
	var (
		out   []span
		cur   []span
		lens  []int
		total int
	)
	for _, p := range pieces {
		n := s.runes(p)
		if len(cur) > 0 && total+n > s.size {
			out = append(out, span{cur[0].start, cur[len(cur)-1].end})
			for len(cur) > 0 && (total > s.overlap || total+n > s.size) {
				total -= lens[0]
				cur, lens = cur[1:], lens[1:]
			}
		}
		cur = append(cur, p)
		lens = append(lens, n)
		total += n
	}
	if len(cur) > 0 {
		out = append(out, span{cur[0].start, cur[len(cur)-1].end})
	}
	return out
}

// hardSplit cuts sp into windows of size runes advancing by size-overlap.
func (s *splitter) hardSplit(sp span) []span {
	offsets := make([]int, 0, sp.end-sp.start+1)
	for i := range s.text[sp.start:sp.end] {
		offsets = append(offsets, sp.start+i)
	}
	offsets = append(offsets, sp.end)
	n := len(offsets) - 1

	step := s.size - s.overlap
	if step <= 0 {
		step = s.size
	}

	var out []span
	for start := 0; ; start += step {
		end := start + s.size
		if end > n {
			end = n
		}
		out = append(out, span{offsets[start], offsets[end]})
		if end == n {
			return out
		}
	}
}

// cutAfter splits sp after every occurrence of sep.
func cutAfter(text string, sp span, sep string) []span {
	var out []span
	cur := sp.start
	for {
		i := strings.Index(text[cur:sp.end], sep)
		if i < 0 {
			break
		}
		end := cur + i + len(sep)
		out = append(out, span{cur, end})
		cur = end
	}
	if cur < sp.end {
		out = append(out, span{cur, sp.end})
	}
	return out
}
