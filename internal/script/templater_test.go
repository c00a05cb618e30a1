// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeywords = []string{"TEST", "EXPECT"}

func TestTemplater_Line(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		seq      int
		want     string
		wantNext int
	}{
		{
			name:     "keyword gets a sequence number",
			line:     "TEST true",
			seq:      1,
			want:     "TEST --seq=1 true",
			wantNext: 2,
		},
		{
			name:     "whitespace is trimmed",
			line:     "   EXPECT --value=a echo a  \t",
			seq:      3,
			want:     "EXPECT --seq=3 --value=a echo a",
			wantNext: 4,
		},
		{
			name:     "pipes become markers",
			line:     "TEST cat /etc/hosts | grep localhost|wc -l",
			seq:      1,
			want:     "TEST --seq=1 cat /etc/hosts  --pipe  grep localhost --pipe wc -l",
			wantNext: 2,
		},
		{
			name:     "keyword name inside the line is left alone",
			line:     "TEST grep TEST file",
			seq:      5,
			want:     "TEST --seq=5 grep TEST file",
			wantNext: 6,
		},
		{
			name:     "quoted keyword is a keyword",
			line:     `"TEST" true`,
			seq:      4,
			want:     "TEST --seq=4 true",
			wantNext: 5,
		},
		{
			name:     "single quoted keyword",
			line:     `'EXPECT' -v x echo x`,
			seq:      1,
			want:     "EXPECT --seq=1 -v x echo x",
			wantNext: 2,
		},
		{
			name:     "quoted word with a space is not a keyword",
			line:     `"TEST true"`,
			seq:      2,
			want:     `"TEST true"`,
			wantNext: 2,
		},
		{
			name:     "unbalanced quote still numbers a keyword",
			line:     `TEST echo "oops`,
			seq:      7,
			want:     `TEST --seq=7 echo "oops`,
			wantNext: 8,
		},
		{
			name:     "unknown keyword is not numbered",
			line:     "echo TEST",
			seq:      2,
			want:     "echo TEST",
			wantNext: 2,
		},
		{
			name:     "keyword prefix is not a keyword",
			line:     "TESTING true",
			seq:      2,
			want:     "TESTING true",
			wantNext: 2,
		},
		{
			name:     "comment",
			line:     "# TEST true",
			seq:      2,
			want:     "# TEST true",
			wantNext: 2,
		},
		{
			name:     "blank",
			line:     "   ",
			seq:      9,
			want:     "",
			wantNext: 9,
		},
	}

	tpl := NewTemplater(testKeywords)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, next := tpl.Line(tc.line, tc.seq)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantNext, next)
		})
	}
}

func TestTemplater_KeywordListIsExplicit(t *testing.T) {
	keywords := []string{"TEST"}
	tpl := NewTemplater(keywords)
	keywords[0] = "EXPECT"

	got, _ := tpl.Line("TEST true", 1)
	assert.Equal(t, "TEST --seq=1 true", got)

	got, _ = tpl.Line("EXPECT --value=x echo x", 1)
	assert.Equal(t, "EXPECT --value=x echo x", got, "EXPECT is not in this templater's list")
}

const sampleScript = `# smoke tests
TEST true

EXPECT --value="Hello world" echo Hello world
  TEST hello | grep world
echo not a directive
TEST --ret=1 false
`

func TestTemplater_Template(t *testing.T) {
	s := NewTemplater(testKeywords).Template("smoke.t", sampleScript)

	assert.Equal(t, "smoke.t", s.Name)
	assert.Equal(t, 4, s.Count)
	require.Len(t, s.Lines, 8)

	var seqs []int

	for _, l := range s.Lines {
		if l.Seq != 0 {
			seqs = append(seqs, l.Seq)
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4}, seqs, "numbering starts at 1 and only keyword lines consume a number")
	assert.Equal(t, Line{Number: 5, Text: "TEST --seq=3 hello  --pipe  grep world", Seq: 3}, s.Lines[4])
	assert.False(t, s.Lines[0].IsDirective())
	assert.False(t, s.Lines[2].IsDirective())
	assert.True(t, s.Lines[5].IsDirective())
}

func TestScript_WriteBash(t *testing.T) {
	s := NewTemplater(testKeywords).Template("smoke.t", sampleScript)

	var buf bytes.Buffer
	require.NoError(t, s.WriteBash(&buf, "/usr/local/bin/binnacle", testKeywords))

	g := goldie.New(t)
	g.Assert(t, "smoke.sh", buf.Bytes())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestScript_WriteBashError(t *testing.T) {
	s := NewTemplater(testKeywords).Template("smoke.t", sampleScript)
	err := s.WriteBash(failingWriter{}, "binnacle", testKeywords)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke.t")
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'binnacle'`, shellQuote("binnacle"))
	assert.Equal(t, `'/opt/it'\''s/binnacle'`, shellQuote("/opt/it's/binnacle"))
}

func TestTemplater_Load(t *testing.T) {
	stubFs(t, map[string]string{"/tests/smoke.t": sampleScript})

	tpl := NewTemplater(testKeywords)

	s, err := tpl.Load("/tests/smoke.t")
	require.NoError(t, err)
	assert.Equal(t, "/tests/smoke.t", s.Name)
	assert.Equal(t, 4, s.Count)

	_, err = tpl.Load("/tests/missing.t")
	require.ErrorIs(t, err, ErrTestFileNotFound)
}
