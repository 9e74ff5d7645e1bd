package repair

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibakeMarkers are the lead characters UTF-8 text acquires when it is
// decoded as Windows-1252: Ã and Â lead two-byte sequences, â leads
// three-byte ones.
const mojibakeMarkers = "ÃÂâ"

// FixMojibake reverses double-encoded UTF-8 one sequence at a time. A
// marker followed by the characters whose Windows-1252 bytes complete a
// valid UTF-8 sequence is replaced by the decoded rune; everything else,
// including genuine typographic quotes next to a sequence, is kept.
// Input that is not valid UTF-8 is returned unchanged.
func FixMojibake(s string) string {
	if !strings.ContainsAny(s, mojibakeMarkers) || !utf8.ValidString(s) {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		if r, n := decodeSequence(runes[i:]); n > 0 {
			b.WriteRune(r)
			i += n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// decodeSequence decodes the mojibake sequence at the start of runes and
// returns the rune with the number of runes it consumed, or 0 when there is
// no sequence there.
func decodeSequence(runes []rune) (rune, int) {
	if !strings.ContainsRune(mojibakeMarkers, runes[0]) {
		return 0, 0
	}
	lead, _ := charmap.Windows1252.EncodeRune(runes[0])
	n := sequenceLength(lead)
	if n == 0 || len(runes) < n {
		return 0, 0
	}
	buf := make([]byte, n)
	for i, r := range runes[:n] {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return 0, 0
		}
		buf[i] = c
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError || size != n {
		return 0, 0
	}
	return r, n
}

// sequenceLength is the UTF-8 sequence length announced by lead.
func sequenceLength(lead byte) int {
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		return 2
	case lead >= 0xE0 && lead <= 0xEF:
		return 3
	}
	return 0
}
