package object

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/internal/readutil"
)

// Mode is the octal file mode stored alongside a tree entry.
type Mode uint32

// The modes a tree entry may carry, per §3/§4.9.
const (
	ModeDirectory  Mode = 0o40000
	ModeFile       Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeSymlink    Mode = 0o120000
)

// IsValid reports whether m is one of the four supported modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDirectory, ModeFile, ModeExecutable, ModeSymlink:
		return true
	default:
		return false
	}
}

// IsDir reports whether the entry is a subtree.
func (m Mode) IsDir() bool {
	return m == ModeDirectory
}

// String renders the mode as the ASCII octal form with no leading zero
// used on the wire ("40000", "100644", "100755", "120000").
func (m Mode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// Entry is one record of a tree's payload.
type Entry struct {
	Mode Mode
	Name string
	ID   Oid
}

// Tree is the parsed form of a tree object.
type Tree struct {
	entries []Entry
}

// NewTree builds a Tree from an unsorted entry list, sorting it per §3.
func NewTree(entries []Entry) *Tree {
	t := &Tree{entries: append([]Entry(nil), entries...)}
	sortEntries(t.entries)
	return t
}

// Entries returns a defensive copy of the tree's entries, in sorted order.
func (t *Tree) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// sortKey is the name used for ordering: directory names get a
// trailing "/" so that "foo" and "foo.txt" sort the way real Git sorts
// a directory "foo/" against a file "foo.txt".
func sortKey(e Entry) string {
	if e.Mode.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
}

// NewTreeFromObject parses a tree object's payload into a Tree.
func NewTreeFromObject(o *Object) (*Tree, error) {
	if o.Kind() != KindTree {
		return nil, giterrors.New(giterrors.UnsupportedKind, "object %s is not a tree", o.ID())
	}
	data := o.Bytes()
	entries := make([]Entry, 0)
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, giterrors.New(giterrors.MalformedObjectHeader, "tree entry missing mode separator")
		}
		modeVal, err := strconv.ParseUint(string(data[:sp]), 8, 32)
		if err != nil {
			return nil, giterrors.Wrap(giterrors.MalformedObjectHeader, err, "invalid tree entry mode %q", string(data[:sp]))
		}
		mode := Mode(modeVal)
		data = data[sp+1:]

		nameBytes := readutil.ReadTo(data, 0)
		if nameBytes == nil {
			return nil, giterrors.New(giterrors.MalformedObjectHeader, "tree entry missing name terminator")
		}
		name := string(nameBytes)
		if name == "" {
			return nil, giterrors.New(giterrors.MalformedObjectHeader, "tree entry has empty name")
		}
		data = data[len(nameBytes)+1:]

		if len(data) < OidSize {
			return nil, giterrors.New(giterrors.MalformedObjectHeader, "tree entry truncated identity")
		}
		id, err := NewOidFromRawBytes(data[:OidSize])
		if err != nil {
			return nil, err
		}
		data = data[OidSize:]

		entries = append(entries, Entry{Mode: mode, Name: name, ID: id})
	}
	return NewTree(entries), nil
}

// ToObject serializes the tree into a storable Object. Entries are
// written in sorted order, each as "<octal-mode> <name>\0<raw-id>".
func (t *Tree) ToObject() *Object {
	var buf bytes.Buffer
	for _, e := range t.entries {
		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return New(KindTree, buf.Bytes())
}
