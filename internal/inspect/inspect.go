// Package inspect reports where a document's version element can be found,
// for debugging documents whose version check fails unexpectedly.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/dshills/xerex/internal/doc"
)

// NotFound is printed for a lookup that matched nothing.
const NotFound = "NOT FOUND"

// childTagLimit bounds the root children listed in a Probe.
const childTagLimit = 5

// Probe is what debug-version learned about one file.
type Probe struct {
	Path      string
	Err       error
	Direct    string // ./current_version
	AnyLevel  string // .//current_version
	RootChild string // current_version
	RootTag   string
	Children  []string
	Trust     string
	Count     *doc.CharacterCount
	CountErr  error
}

// File loads path and probes it. A load failure is recorded on the Probe.
func File(path string) *Probe {
	d, err := doc.Load(path)
	if err != nil {
		return &Probe{Path: path, Err: err}
	}
	return Document(d)
}

// Document probes an already parsed document.
func Document(d *doc.Document) *Probe {
	root := d.Root()
	p := &Probe{
		Path:      d.Path,
		Direct:    text(root.FindElement("./current_version")),
		AnyLevel:  text(root.FindElement(".//current_version")),
		RootChild: text(root.SelectElement("current_version")),
		RootTag:   root.Tag,
		Children:  doc.ChildTags(root, childTagLimit),
	}
	if v, ok := doc.TrustLevel(root); ok {
		p.Trust = v
	}
	cc, ok, err := doc.ReadCharacterCount(root)
	if ok {
		p.Count = &cc
		p.CountErr = err
	}
	return p
}

func text(el *etree.Element) string {
	if el == nil {
		return NotFound
	}
	return el.Text()
}

// Write prints the probe in the debug-version layout.
func (p *Probe) Write(w io.Writer) {
	if p.Err != nil {
		fmt.Fprintf(w, "\n%s: ERROR - %v\n", p.Path, p.Err)
		return
	}
	fmt.Fprintf(w, "\n%s:\n", p.Path)
	fmt.Fprintf(w, "  Direct child:  %s\n", p.Direct)
	fmt.Fprintf(w, "  Any level:     %s\n", p.AnyLevel)
	fmt.Fprintf(w, "  Root child:    %s\n", p.RootChild)
	fmt.Fprintf(w, "  Root tag:      %s\n", p.RootTag)
	fmt.Fprintf(w, "  First children: %s\n", strings.Join(p.Children, ", "))
	if p.Trust != "" {
		fmt.Fprintf(w, "  Trust level:   %s\n", p.Trust)
	}
	switch {
	case p.CountErr != nil:
		fmt.Fprintf(w, "  Characters:    invalid (%v)\n", p.CountErr)
	case p.Count != nil:
		fmt.Fprintf(w, "  Characters:    %d current, %d limit, %d target\n",
			p.Count.Current, p.Count.Limit, p.Count.Target)
	}
}
