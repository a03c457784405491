package scan

import (
	"testing"

	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/stretchr/testify/require"
)

func TestSkipWhitespace(t *testing.T) {
	src := token.NewSource("  // note\n /* block\n */  x", "")
	require.Equal(t, src.Len()-1, SkipWhitespace(src, 0))

	src = token.NewSource("   ", "")
	require.Equal(t, 3, SkipWhitespace(src, 0))
}

func TestScanIdentifier(t *testing.T) {
	src := token.NewSource("foo_1 bar", "")
	require.Equal(t, 5, ScanIdentifier(src, 0, src.Len()))
	require.Equal(t, 3, ScanIdentifier(src, 0, 3))
	require.Equal(t, 5, ScanIdentifier(src, 5, src.Len()))
}

func TestBalancedCapture(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"{}", 1},
		{"{ { } }", 6},
		{"[1, [2], 3]", 10},
		{"(a, \")\")", 7},
		{`"a\"b"`, 5},
		{"'x;y'", 4},
		{"{ '}' }", 6},
		{"{ // don't }\n}", 13},
		{"{ /* } */ }", 10},
		{"(a / b)", 6},
	}
	for _, tc := range tests {
		src := token.NewSource(tc.input, "")
		end, err := BalancedCapture(src, 0, src.Len())
		require.Nil(t, err, tc.input)
		require.Equal(t, tc.expected, end, tc.input)
	}
}

func TestBalancedCaptureUnterminated(t *testing.T) {
	for _, input := range []string{"{ {", "\"abc", "(]", "{ /* }", "{ // }"} {
		src := token.NewSource(input, "")
		_, err := BalancedCapture(src, 0, src.Len())
		require.NotNil(t, err, input)
		var unbalanced *UnbalancedError
		require.ErrorAs(t, err, &unbalanced)
		require.Equal(t, 0, unbalanced.Offset)
	}
}

func TestCaptureToTerminator(t *testing.T) {
	src := token.NewSource(`"a;b" + f(1;2); rest`, "")
	end, err := CaptureToTerminator(src, 0, src.Len(), ';')
	require.Nil(t, err)
	require.Equal(t, 14, end)

	src = token.NewSource("1 // a;b\n + 2; rest", "")
	end, err = CaptureToTerminator(src, 0, src.Len(), ';')
	require.Nil(t, err)
	require.Equal(t, 13, end)

	src = token.NewSource("1 + 2", "")
	end, err = CaptureToTerminator(src, 0, src.Len(), ';')
	require.Nil(t, err)
	require.Equal(t, 5, end)
}

func TestFollowsTerminated(t *testing.T) {
	src := token.NewSource("proto A { B b; };\n proto B", "")
	last := 15 // closing brace of A
	require.Equal(t, byte('}'), src.At(last))
	// cursor just past the "proto" keyword of the next declaration
	require.True(t, FollowsTerminated(src, src.Len()-2, last))

	src = token.NewSource("proto A { B b; }; x = 2; proto B", "")
	require.False(t, FollowsTerminated(src, src.Len()-2, last))
}
