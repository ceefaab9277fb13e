package lsusb

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ford-prefect/uac-analyzer/pkg/descriptors"
)

// splitField divides "bNrChannels   2" into the field name and the value
// column. The value keeps any trailing description text. Whitespace inside
// brackets stays part of the name, since lsusb pads array indices as in
// "bmaControls( 0)".
func splitField(text string) (name, rest string) {
	depth := 0
	for i, r := range text {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return text[:i], strings.TrimSpace(text[i:])
			}
		}
	}
	return text, ""
}

// arrayIndex extracts the index from array-style field names such as
// "baSourceID( 1)" or "tSamFreq[ 0]". It returns the bare name and -1 for
// scalar fields.
func arrayIndex(name string) (base string, index int) {
	open := strings.IndexAny(name, "([")
	if open < 0 {
		return name, -1
	}
	closer := strings.IndexAny(name[open:], ")]")
	if closer < 0 {
		return name, -1
	}
	idxText := strings.TrimSpace(name[open+1 : open+closer])
	n, err := strconv.Atoi(idxText)
	if err != nil {
		return name, -1
	}
	return name[:open], n
}

// firstToken returns the leading whitespace-delimited token of a value
// column, leaving any description text behind.
func firstToken(rest string) (tok, remainder string) {
	i := strings.IndexAny(rest, " \t")
	if i < 0 {
		return rest, ""
	}
	return rest[:i], strings.TrimSpace(rest[i:])
}

// fieldItem is one field line captured from a descriptor block.
type fieldItem struct {
	ln    line
	name  string
	index int // -1 for scalar fields
	rest  string
}

// fieldSet holds the field lines of one descriptor block and decodes them on
// demand. Missing fields read as zero without complaint, since descriptor
// layouts differ across UAC generations; malformed values raise a Warning.
type fieldSet struct {
	p     *parser
	items []fieldItem
}

// collectBlock consumes every line belonging to the block whose header sat at
// entryDepth. Direct children become fields; deeper lines are the annotations
// lsusb prints under bitmap fields and are skipped. The block ends at the
// next line at or above entryDepth or at a nested descriptor header.
func (p *parser) collectBlock(entryDepth int) *fieldSet {
	fs := &fieldSet{p: p}
	for !p.cur.atEnd() {
		ln := p.cur.peek()
		if ln.depth <= entryDepth || isSectionHeader(ln.text) {
			break
		}
		p.cur.advance()
		if ln.depth != entryDepth+1 {
			continue
		}
		name, rest := splitField(ln.text)
		base, idx := arrayIndex(name)
		fs.items = append(fs.items, fieldItem{ln: ln, name: base, index: idx, rest: rest})
	}
	return fs
}

func (fs *fieldSet) find(name string) (fieldItem, bool) {
	for _, it := range fs.items {
		if it.name == name && it.index < 0 {
			return it, true
		}
	}
	return fieldItem{}, false
}

func (fs *fieldSet) has(name string) bool {
	_, ok := fs.find(name)
	return ok
}

// uint decodes the first value token of the named field in base 0, so both
// the decimal and 0x-prefixed columns lsusb prints work.
func (fs *fieldSet) uint(name string, bits int) uint64 {
	it, ok := fs.find(name)
	if !ok {
		return 0
	}
	return fs.decodeUint(it, bits)
}

func (fs *fieldSet) decodeUint(it fieldItem, bits int) uint64 {
	tok, _ := firstToken(it.rest)
	n, err := strconv.ParseUint(tok, 0, bits)
	if err != nil {
		fs.p.warnf(it.ln, it.name, "unreadable value %q", tok)
		return 0
	}
	return n
}

func (fs *fieldSet) uint8(name string) uint8   { return uint8(fs.uint(name, 8)) }
func (fs *fieldSet) uint16(name string) uint16 { return uint16(fs.uint(name, 16)) }
func (fs *fieldSet) uint32(name string) uint32 { return uint32(fs.uint(name, 32)) }

// bcd decodes a dotted version field such as "bcdADC  1.00".
func (fs *fieldSet) bcd(name string) descriptors.BCD {
	it, ok := fs.find(name)
	if !ok {
		return descriptors.VersionUnknown
	}
	tok, _ := firstToken(it.rest)
	bcd, err := descriptors.ParseBCD(tok)
	if err != nil {
		fs.p.warnf(it.ln, it.name, "%v", err)
		return descriptors.VersionUnknown
	}
	return bcd
}

// str decodes a string-descriptor column such as "iProduct  2 USB Audio
// Device": the index comes first, the resolved text after it.
func (fs *fieldSet) str(name string) string {
	it, ok := fs.find(name)
	if !ok {
		return ""
	}
	_, desc := firstToken(it.rest)
	return desc
}

// array8 gathers an indexed field family like baSourceID(n) in index order.
func (fs *fieldSet) array8(name string) []uint8 {
	var out []uint8
	for _, it := range fs.sortedArray(name) {
		out = append(out, uint8(fs.decodeUint(it, 8)))
	}
	return out
}

// array32 gathers an indexed field family as 32-bit values, wide enough for
// both one-byte and four-byte bitmap columns.
func (fs *fieldSet) array32(name string) []uint32 {
	var out []uint32
	for _, it := range fs.sortedArray(name) {
		out = append(out, uint32(fs.decodeUint(it, 32)))
	}
	return out
}

func (fs *fieldSet) sortedArray(name string) []fieldItem {
	var items []fieldItem
	for _, it := range fs.items {
		if it.name == name && it.index >= 0 {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].index < items[j].index })
	return items
}
