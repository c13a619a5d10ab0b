package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dgallion1/slidestream/internal/markup"
)

// identities maps section fingerprints to document IDs. Methods return an
// updated copy; the receiver is never modified.
type identities struct {
	byPrint map[string]string // fingerprint -> document ID
	slotOf  map[string]int    // document ID -> slot it was minted for
	minted  int
}

// assign returns the ID for a section in slot with fingerprint fp. current
// is the ID already held by the document in that slot, if any.
func (t identities) assign(ns uuid.UUID, fp string, slot int, current string) (identities, string) {
	if id, ok := t.byPrint[fp]; ok {
		if owner, bound := t.slotOf[id]; !bound || owner == slot {
			return t, id
		}
	}

	t = t.clone()
	id := current
	if id == "" {
		id = uuid.NewSHA1(ns, []byte("slide-"+strconv.Itoa(t.minted))).String()
		t.minted++
		t.slotOf[id] = slot
	}
	t.byPrint[fp] = id
	return t, id
}

func (t identities) clone() identities {
	out := identities{
		byPrint: maps.Clone(t.byPrint),
		slotOf:  maps.Clone(t.slotOf),
		minted:  t.minted,
	}
	if out.byPrint == nil {
		out.byPrint = map[string]string{}
	}
	if out.slotOf == nil {
		out.slotOf = map[string]int{}
	}
	return out
}

var headingTags = map[string]bool{"H1": true, "H2": true, "H3": true, "H4": true, "H5": true, "H6": true}

// fingerprint derives a section's identity key: its first heading's text,
// else its attributes and leading child tags, else a hash of the raw span.
func fingerprint(sec *markup.Node, raw string) string {
	if h := findFirst(sec, func(n *markup.Node) bool { return headingTags[n.Tag] }); h != nil {
		if t := strings.TrimSpace(h.TextContent()); t != "" {
			return "h:" + t
		}
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(sec.Attrs)) {
		parts = append(parts, k+"="+sec.Attrs[k])
	}
	for i, el := range sec.Elements() {
		if i == 3 {
			break
		}
		parts = append(parts, "<"+el.Tag)
	}
	if len(parts) > 0 {
		return "a:" + strings.Join(parts, "|")
	}

	sum := sha256.Sum256([]byte(raw))
	return "r:" + hex.EncodeToString(sum[:])
}

func findFirst(n *markup.Node, match func(*markup.Node) bool) *markup.Node {
	for _, c := range n.Children {
		if c.IsText() {
			continue
		}
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
