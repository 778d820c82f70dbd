package priority

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	texts := []string{"", "call before noon", "door code 1234", "Client asked. Call later"}

	for p := Min; p <= Max; p++ {
		for _, text := range texts {
			encoded := Encode(p, text)

			got, ok, remainder := Decode(encoded)
			assert.True(t, ok, "priority %d on %q", p, text)
			assert.Equal(t, p, got)
			assert.Equal(t, text, remainder)
		}
	}
}

func TestEncode_ReplacesExistingPriority(t *testing.T) {
	assert.Equal(t, "5. fragile", Encode(5, "2. fragile"))
	assert.Equal(t, "1. fragile", Encode(1, "1. fragile"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		priority  int
		ok        bool
		remainder string
	}{
		{name: "with space", text: "3. leave at door", priority: 3, ok: true, remainder: "leave at door"},
		{name: "without space", text: "7.urgent", priority: 7, ok: true, remainder: "urgent"},
		{name: "several spaces", text: "1.   x", priority: 1, ok: true, remainder: "x"},
		{name: "only token", text: "4. ", priority: 4, ok: true, remainder: ""},
		{name: "zero is not a priority", text: "0. nothing", ok: false, remainder: "0. nothing"},
		{name: "eight is not a priority", text: "8. nothing", ok: false, remainder: "8. nothing"},
		{name: "large numeral left as text", text: "42. something", ok: false, remainder: "42. something"},
		{name: "no period", text: "3 items", ok: false, remainder: "3 items"},
		{name: "numeral not leading", text: "call 2. later", ok: false, remainder: "call 2. later"},
		{name: "empty", text: "", ok: false, remainder: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok, remainder := Decode(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.priority, p)
			assert.Equal(t, tt.remainder, remainder)
		})
	}
}

// Strip accepts any numeral while Decode only accepts 1..7. Kept on purpose:
// a comment starting with "42. " loses that token when a priority is applied.
func TestStrip_RemovesOutOfRangeNumerals(t *testing.T) {
	assert.Equal(t, "something", Strip("42. something"))
	assert.Equal(t, "3. something", Encode(3, "42. something"))

	_, ok, _ := Decode("42. something")
	assert.False(t, ok)
}

func TestStrip_LeavesPlainText(t *testing.T) {
	assert.Equal(t, "plain", Strip("plain"))
	assert.Equal(t, "call 2. later", Strip("call 2. later"))
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name     string
		p        int
		text     string
		expected string
	}{
		{name: "set on plain text", p: 2, text: "ring twice", expected: "2. ring twice"},
		{name: "unset same priority", p: 2, text: "2. ring twice", expected: "ring twice"},
		{name: "replace other priority", p: 5, text: "2. ring twice", expected: "5. ring twice"},
		{name: "set on empty", p: 1, text: "", expected: "1. "},
		{name: "unset leaves empty", p: 1, text: "1. ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Toggle(tt.p, tt.text))
		})
	}
}

func TestToggle_TwiceRestoresText(t *testing.T) {
	for p := Min; p <= Max; p++ {
		text := "back entrance"
		assert.Equal(t, text, Toggle(p, Toggle(p, text)))
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(0))
	assert.True(t, Valid(1))
	assert.True(t, Valid(7))
	assert.False(t, Valid(8))
}

func TestLess(t *testing.T) {
	comments := []string{"plain", "3. c", "1. a", "42. odd", "2. b"}
	sort.SliceStable(comments, func(i, j int) bool { return Less(comments[i], comments[j]) })

	assert.Equal(t, []string{"1. a", "2. b", "3. c", "plain", "42. odd"}, comments)
}
