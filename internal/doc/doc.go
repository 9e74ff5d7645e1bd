// Package doc loads XEREX profile documents and answers the handful of
// tree lookups the maintenance commands share.
package doc

import (
	"bytes"
	"crypto/sha256"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrNoRoot is returned for input that contains no root element.
var ErrNoRoot = errors.New("no root element")

// Document holds a parsed profile document with derived metadata.
type Document struct {
	Path string
	Hash string // "sha256:<hex>" of Raw
	Raw  []byte
	Tree *etree.Document
}

// Load reads and parses the XML file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(path, data)
}

// Parse parses data as a profile document. path is informational.
func Parse(path string, data []byte) (*Document, error) {
	if err := WellFormed(data); err != nil {
		return nil, err
	}
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if tree.Root() == nil {
		return nil, ErrNoRoot
	}
	return &Document{
		Path: path,
		Hash: fmt.Sprintf("sha256:%x", sha256.Sum256(data)),
		Raw:  data,
		Tree: tree,
	}, nil
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.Tree.Root()
}

// Bytes serializes the tree, prefixing declaration when the document has none.
func (d *Document) Bytes(declaration string) ([]byte, error) {
	d.Tree.WriteSettings.CanonicalText = true
	out, err := d.Tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", d.Path, err)
	}
	if declaration != "" && !bytes.HasPrefix(out, []byte("<?xml")) {
		out = append([]byte(declaration+"\n"), out...)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// WellFormed reports whether data is a well-formed XML document with
// exactly one root element.
func WellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	roots := 0
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					line, _ := dec.InputPos()
					return fmt.Errorf("line %d: second root element <%s>", line, t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: text outside root element", line)
			}
		}
	}
	if roots == 0 {
		return ErrNoRoot
	}
	return nil
}
