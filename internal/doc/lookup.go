package doc

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Walk calls fn for el and every descendant element in document order.
func Walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		Walk(child, fn)
	}
}

// FindVersion locates the current_version element. With rootFirst the
// direct children of root are searched before the whole tree.
func FindVersion(root *etree.Element, rootFirst bool) *etree.Element {
	if rootFirst {
		if el := root.FindElement("current_version"); el != nil {
			return el
		}
	}
	return root.FindElement(".//current_version")
}

// TrustLevel returns the value attribute of the first trust_level element.
func TrustLevel(root *etree.Element) (string, bool) {
	el := root.FindElement(".//trust_level[@value]")
	if el == nil {
		return "", false
	}
	return el.SelectAttrValue("value", ""), true
}

// CharacterCount is the character_count metadata block. A zero field
// whose Has flag is false was absent.
type CharacterCount struct {
	Current, Limit, Target          int
	HasCurrent, HasLimit, HasTarget bool
}

// ReadCharacterCount parses the character_count block. The bool result is
// false when the block is absent; an error reports a non-numeric field.
func ReadCharacterCount(root *etree.Element) (CharacterCount, bool, error) {
	block := root.FindElement(".//character_count")
	if block == nil {
		return CharacterCount{}, false, nil
	}
	var cc CharacterCount
	var err error
	if cc.Current, cc.HasCurrent, err = intChild(block, "current"); err != nil {
		return cc, true, err
	}
	if cc.Limit, cc.HasLimit, err = intChild(block, "limit"); err != nil {
		return cc, true, err
	}
	if cc.Target, cc.HasTarget, err = intChild(block, "target"); err != nil {
		return cc, true, err
	}
	return cc, true, nil
}

func intChild(parent *etree.Element, tag string) (int, bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return 0, false, nil
	}
	text := strings.ReplaceAll(strings.TrimSpace(el.Text()), ",", "")
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, true, &FieldError{Tag: tag, Value: el.Text()}
	}
	return n, true, nil
}

// FieldError reports an element whose text is not the expected integer.
type FieldError struct {
	Tag   string
	Value string
}

func (e *FieldError) Error() string {
	return "<" + e.Tag + "> is not a number: " + strconv.Quote(e.Value)
}

// ChildTags returns the tags of up to n child elements of el.
func ChildTags(el *etree.Element, n int) []string {
	children := el.ChildElements()
	if len(children) > n {
		children = children[:n]
	}
	tags := make([]string, len(children))
	for i, c := range children {
		tags[i] = c.Tag
	}
	return tags
}
