package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbolino/mingit/giterrors"
)

// Signature is the "Name <Email> seconds ±HHMM" triple used for both
// the author and committer lines of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String renders the signature in its on-disk form.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// NewSignatureFromBytes parses one "Name <Email> seconds ±HHMM" line.
func NewSignatureFromBytes(line []byte) (Signature, error) {
	lt := bytes.IndexByte(line, '<')
	if lt < 0 {
		return Signature{}, giterrors.New(giterrors.MalformedObjectHeader, "signature missing '<'")
	}
	gt := bytes.IndexByte(line, '>')
	if gt < 0 || gt < lt {
		return Signature{}, giterrors.New(giterrors.MalformedObjectHeader, "signature missing '>'")
	}
	name := strings.TrimSpace(string(line[:lt]))
	email := string(line[lt+1 : gt])

	rest := strings.TrimSpace(string(line[gt+1:]))
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Signature{}, giterrors.New(giterrors.MalformedObjectHeader, "signature missing timestamp/timezone")
	}
	seconds, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, giterrors.Wrap(giterrors.MalformedObjectHeader, err, "invalid signature timestamp %q", fields[0])
	}
	loc, err := parseTZOffset(fields[1])
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		Name:  name,
		Email: email,
		When:  time.Unix(seconds, 0).In(loc),
	}, nil
}

func parseTZOffset(tz string) (*time.Location, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return nil, giterrors.New(giterrors.MalformedObjectHeader, "invalid timezone %q", tz)
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil, giterrors.Wrap(giterrors.MalformedObjectHeader, err, "invalid timezone %q", tz)
	}
	mins, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil, giterrors.Wrap(giterrors.MalformedObjectHeader, err, "invalid timezone %q", tz)
	}
	offset := hours*3600 + mins*60
	if tz[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(tz, offset), nil
}

// Commit is the parsed form of a commit object.
type Commit struct {
	Tree      Oid
	Parents   []Oid
	Author    Signature
	Committer Signature
	Message   string
}

// NewCommit builds a Commit, defaulting the committer to the author
// when no committer is supplied.
func NewCommit(tree Oid, parents []Oid, author Signature, committer *Signature, message string) *Commit {
	c := &Commit{
		Tree:    tree,
		Parents: parents,
		Author:  author,
		Message: message,
	}
	if committer != nil {
		c.Committer = *committer
	} else {
		c.Committer = author
	}
	return c
}

// NewCommitFromObject parses a commit object's payload into a Commit.
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.Kind() != KindCommit {
		return nil, giterrors.New(giterrors.UnsupportedKind, "object %s is not a commit", o.ID())
	}

	c := &Commit{}
	lines := bytes.Split(o.Bytes(), []byte("\n"))
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if len(line) == 0 {
			i++
			break
		}
		sp := bytes.IndexByte(line, ' ')
		if sp < 0 {
			return nil, giterrors.New(giterrors.MalformedObjectHeader, "commit header line missing key/value separator")
		}
		key := string(line[:sp])
		value := line[sp+1:]
		switch key {
		case "tree":
			id, err := NewOidFromHex(value)
			if err != nil {
				return nil, err
			}
			c.Tree = id
		case "parent":
			id, err := NewOidFromHex(value)
			if err != nil {
				return nil, err
			}
			c.Parents = append(c.Parents, id)
		case "author":
			sig, err := NewSignatureFromBytes(value)
			if err != nil {
				return nil, err
			}
			c.Author = sig
		case "committer":
			sig, err := NewSignatureFromBytes(value)
			if err != nil {
				return nil, err
			}
			c.Committer = sig
		case "gpgsig":
			// consume the (possibly multi-line, space-continued) signature
			// block; it is preserved nowhere since signing is out of scope.
			for i+1 < len(lines) && len(lines[i+1]) > 0 && lines[i+1][0] == ' ' {
				i++
			}
		default:
			// unknown headers are ignored rather than rejected, the same
			// forward-compatible stance real Git takes.
		}
	}
	if c.Tree.IsZero() {
		return nil, giterrors.New(giterrors.MalformedObjectHeader, "commit is missing a tree line")
	}
	if c.Author.Name == "" {
		return nil, giterrors.New(giterrors.MalformedObjectHeader, "commit is missing an author line")
	}
	c.Message = string(bytes.Join(lines[i:], []byte("\n")))
	return c, nil
}

// ToObject serializes the commit into a storable Object.
func (c *Commit) ToObject() *Object {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree.String())
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author.String())
	fmt.Fprintf(&buf, "committer %s\n", c.Committer.String())
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return New(KindCommit, buf.Bytes())
}
