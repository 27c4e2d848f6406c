package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_StringsFormat(t *testing.T) {
	tests := []struct {
		name     string
		comments []string
		want     string
	}{
		{"no comments", nil, `"carry" = "breathe";`},
		{"one comment", []string{"precious"}, "/* precious */\n\"carry\" = \"breathe\";"},
		{"two comments", []string{"This is a", "multiline comment"}, "/* This is a\n   multiline comment */\n\"carry\" = \"breathe\";"},
		{"three comments", []string{"a", "b", "c"}, "/* a\n   b\n   c */\n\"carry\" = \"breathe\";"},
		{"four comments", []string{"a", "b", "c", "d"}, "/* a\n   b\n   c\n   d */\n\"carry\" = \"breathe\";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Key: "carry", Value: "breathe", Comments: tt.comments}
			assert.Equal(t, tt.want, e.StringsFormat())
		})
	}
}

func TestEntry_Equal(t *testing.T) {
	a := Entry{Key: "k", Value: "v", Comments: []string{"x"}, Line: 3}

	assert.True(t, a.Equal(Entry{Key: "k", Value: "v", Comments: []string{"x"}, Line: 9}))
	assert.False(t, a.Equal(Entry{Key: "k", Value: "v"}))
	assert.False(t, a.Equal(Entry{Key: "k", Value: "w", Comments: []string{"x"}}))
	assert.True(t, Entry{Key: "k", Comments: []string{}}.Equal(Entry{Key: "k"}))
}

func TestEntry_Clone(t *testing.T) {
	a := Entry{Key: "k", Value: "v", Comments: []string{"x"}}
	b := a.Clone()
	b.Comments[0] = "y"
	assert.Equal(t, "x", a.Comments[0])
}

func TestEntry_String(t *testing.T) {
	e := Entry{Key: "k", Value: "v", Comments: []string{"c"}}
	assert.Equal(t, `{key: "k", value: "v", comments: ["c"]}`, e.String())
}
