package lrc

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Mapping
	}{
		{name: "empty input", input: "", want: Mapping{}},
		{name: "single line", input: "[1:02.50]hello", want: Mapping{"62.50": "hello"}},
		{name: "later duplicate wins", input: "[0:01.00]a\n[0:01.00]b", want: Mapping{"1.00": "b"}},
		{name: "garbage dropped", input: "garbage\n[0:05.00]ok", want: Mapping{"5.00": "ok"}},
		{name: "fraction required", input: "[0:05]no fraction\n[0:06.0]yes", want: Mapping{"6.00": "yes"}},
		{name: "text trimmed", input: "[0:03.10]   spaced out  \r", want: Mapping{"3.10": "spaced out"}},
		{name: "empty text kept", input: "[0:04.00]", want: Mapping{"4.00": ""}},
		{name: "wide minutes", input: "[125:00.00]late", want: Mapping{"7500.00": "late"}},
		{name: "rounded to two decimals", input: "[0:01.005]x\n[0:02.129]y", want: Mapping{"1.00": "x", "2.13": "y"}},
		{name: "prefix must start the line", input: " [0:01.00]indented", want: Mapping{}},
		{name: "same key after rounding", input: "[0:01.001]first\n[0:01.002]second", want: Mapping{"1.00": "second"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "two good lines", input: "[0:01.00]a\n[0:02.00]b", want: true},
		{name: "one bad line", input: "[0:01.00]a\nbad", want: false},
		// a trailing newline leaves an empty last line, which has no timestamp
		{name: "trailing newline", input: "[0:01.00]a\n", want: false},
		{name: "blank line in the middle", input: "[0:01.00]a\n\n[0:02.00]b", want: false},
		{name: "empty input", input: "", want: false},
		{name: "missing fraction", input: "[0:01]a", want: false},
		{name: "prefix only", input: "[10:59.99]", want: true},
		{name: "crlf line endings", input: "[0:01.00]a\r\n[0:02.00]b\r", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWellFormed(tt.input))
		})
	}
}

func TestValidatorIsStricterThanParser(t *testing.T) {
	text := "[0:01.00]a\nnot a lyric line\n"

	assert.False(t, IsWellFormed(text))
	assert.Equal(t, Mapping{"1.00": "a"}, Parse(text))
}

func TestNormalize(t *testing.T) {
	t.Run("numeric not lexical", func(t *testing.T) {
		track, err := Normalize(Mapping{"10.00": "x", "9.00": "y"})
		require.NoError(t, err)

		want := Track{{Time: 9, Text: "y"}, {Time: 10, Text: "x"}}
		if diff := cmp.Diff(want, track); diff != "" {
			t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty mapping", func(t *testing.T) {
		track, err := Normalize(Mapping{})
		require.NoError(t, err)
		assert.Empty(t, track)
	})

	t.Run("nil mapping", func(t *testing.T) {
		track, err := Normalize(nil)
		require.NoError(t, err)
		assert.Empty(t, track)
	})

	t.Run("many keys", func(t *testing.T) {
		m := Mapping{"100.00": "d", "2.50": "b", "20.00": "c", "0.00": "a", "1000.10": "e"}
		track, err := Normalize(m)
		require.NoError(t, err)

		var texts []string
		for _, line := range track {
			texts = append(texts, line.Text)
		}
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, texts)
	})

	t.Run("malformed key", func(t *testing.T) {
		_, err := Normalize(Mapping{"1.00": "ok", "abc": "bad"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedKey))
		assert.Contains(t, err.Error(), `"abc"`)
	})

	t.Run("keys must be plain non-negative decimals", func(t *testing.T) {
		for _, key := range []string{"-5.00", "1e2", " 3.00 ", "5", "+1.00", "NaN", "Inf", ".50", ""} {
			_, err := Normalize(Mapping{key: "x"})
			assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
		}
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input Mapping
		want  string
	}{
		{name: "minute split", input: Mapping{"125.30": "text"}, want: "[2:5.30]text"},
		{name: "zero", input: Mapping{"0.00": "start"}, want: "[0:0.00]start"},
		{name: "no zero padding", input: Mapping{"5.00": "five"}, want: "[0:5.00]five"},
		{name: "sorted before emitting", input: Mapping{"10.00": "x", "9.00": "y"}, want: "[0:9.00]y\n[0:10.00]x"},
		{name: "trailing whitespace stripped", input: Mapping{"1.00": "a", "2.00": "b  "}, want: "[0:1.00]a\n[0:2.00]b"},
		{name: "empty", input: Mapping{}, want: ""},
		{name: "over an hour", input: Mapping{"3723.45": "late"}, want: "[62:3.45]late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed key", func(t *testing.T) {
		_, err := Format(Mapping{"NOPE": "x"})
		assert.ErrorIs(t, err, ErrMalformedKey)
	})

	t.Run("negative key", func(t *testing.T) {
		out, err := Format(Mapping{"-5.00": "neg"})
		assert.ErrorIs(t, err, ErrMalformedKey)
		assert.Empty(t, out)
	})

	t.Run("exponent and padded keys", func(t *testing.T) {
		_, err := Format(Mapping{"1e2": "sci", " 3.00 ": "sp"})
		assert.ErrorIs(t, err, ErrMalformedKey)
	})
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"[0:01.00]first\n[0:02.50]second\n[1:05.30]third",
		"[0:00.00]intro\n[0:09.99]nine\n[0:10.00]ten\n[2:00.00]two minutes",
		"[0:12.34]  padded text  \n[3:59.99]end",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original := Parse(input)

			text, err := Format(original)
			require.NoError(t, err)
			assert.True(t, IsWellFormed(text), "formatted text should validate: %q", text)

			if diff := cmp.Diff(original, Parse(text)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrackMapping(t *testing.T) {
	track := Track{{Time: 62.5, Text: "hello"}, {Time: 1, Text: "a"}}
	assert.Equal(t, Mapping{"62.50": "hello", "1.00": "a"}, track.Mapping())
}

func TestDraft(t *testing.T) {
	track := Draft([]string{"first", "", "  second  ", "third"}, 0, 4)

	want := Track{
		{Time: 0, Text: "first"},
		{Time: 4, Text: "second"},
		{Time: 8, Text: "third"},
	}
	if diff := cmp.Diff(want, track); diff != "" {
		t.Errorf("Draft() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "[0:0.00]first\n[0:4.00]second\n[0:8.00]third", track.String())
	assert.True(t, IsWellFormed(track.String()))
}

func TestConcurrentUse(t *testing.T) {
	const text = "[0:01.00]a\n[0:02.00]b\n[0:03.00]c"

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := Format(Parse(text))
			assert.NoError(t, err)
			assert.Equal(t, "[0:1.00]a\n[0:2.00]b\n[0:3.00]c", out)
		}()
	}
	wg.Wait()
}
