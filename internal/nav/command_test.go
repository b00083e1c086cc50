package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cmd, err := Parse("dist:Andijon:2")
	require.NoError(t, err)
	require.Equal(t, "dist", cmd.Verb)
	require.Equal(t, []string{"Andijon", "2"}, cmd.Args)

	cmd, err = Parse("start")
	require.NoError(t, err)
	require.Equal(t, "start", cmd.Verb)
	require.Empty(t, cmd.Args)
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"", "   ", ":menu"} {
		_, err := Parse(s)
		require.ErrorIs(t, err, ErrBadCommand, "input %q", s)
	}
}

func TestFormatSanitizesArgs(t *testing.T) {
	require.Equal(t, "corp", Format("corp"))
	require.Equal(t, "corp:Alfa:0", Format("corp", "Alfa", "0"))
	require.Equal(t, "corp:Alfa_ Ltd", Format("corp", "Alfa: Ltd"))
}

func TestFormatParseRoundTrip(t *testing.T) {
	cmd, err := Parse(Format("sizedist", "large", "Buxoro", "1"))
	require.NoError(t, err)
	require.Equal(t, "sizedist", cmd.Verb)
	require.Equal(t, "large", cmd.Arg(0))
	require.Equal(t, "Buxoro", cmd.Arg(1))
	require.Equal(t, 1, cmd.Page())
}

func TestArgOutOfRange(t *testing.T) {
	cmd := Command{Verb: "dist", Args: []string{"Andijon"}}
	require.Equal(t, "Andijon", cmd.Arg(0))
	require.Equal(t, "", cmd.Arg(1))
	require.Equal(t, "", cmd.Arg(-1))
}

func TestPage(t *testing.T) {
	require.Equal(t, 3, Command{Args: []string{"x", "3"}}.Page())
	require.Equal(t, 0, Command{Args: []string{"x"}}.Page())
	require.Equal(t, 0, Command{Args: []string{"-2"}}.Page())
	require.Equal(t, 0, Command{}.Page())
}
