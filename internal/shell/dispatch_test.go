package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSrc = `
func add(a: int, b: int) -> int {
	return a + b;
}`

func writeFixture(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.vsl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestDispatchHelp(t *testing.T) {
	out, quit, err := Dispatch("help")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out, "run <file>")
}

func TestDispatchExitAndQuit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		out, quit, err := Dispatch(cmd)
		require.NoError(t, err)
		assert.True(t, quit)
		assert.Equal(t, "bye", out)
	}
}

func TestDispatchEmptyLineIsNoop(t *testing.T) {
	out, quit, err := Dispatch("   ")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, out)
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, _, err := Dispatch("frobnicate")
	assert.Error(t, err)
}

func TestDispatchRunSummarizesByDefault(t *testing.T) {
	path := writeFixture(t, fixtureSrc)
	out, quit, err := Dispatch("run " + path)
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out, "module __main: 1 function(s)")
	assert.Contains(t, out, "func add:")
}

func TestDispatchRunAstFlag(t *testing.T) {
	path := writeFixture(t, fixtureSrc)
	out, _, err := Dispatch("run " + path + " -ast")
	require.NoError(t, err)
	assert.Contains(t, out, "FuncDefineStmt")
}

func TestDispatchRunTokenStreamFlag(t *testing.T) {
	path := writeFixture(t, fixtureSrc)
	out, _, err := Dispatch("run " + path + " -ts")
	require.NoError(t, err)
	assert.Contains(t, out, "IDENT")
}

func TestDispatchRunSakirFlagDumpsIR(t *testing.T) {
	path := writeFixture(t, fixtureSrc)
	out, _, err := Dispatch("run " + path + " -sakir")
	require.NoError(t, err)
	assert.Contains(t, out, "module __main")
	assert.Contains(t, out, "func add(")
}

func TestDispatchRunMissingFileReportsError(t *testing.T) {
	_, _, err := Dispatch("run /does/not/exist.vsl")
	assert.Error(t, err)
}

func TestDispatchRunWithoutPathReportsError(t *testing.T) {
	_, _, err := Dispatch("run")
	assert.Error(t, err)
}

func TestDispatchRunRejectsUnknownFlag(t *testing.T) {
	path := writeFixture(t, fixtureSrc)
	_, _, err := Dispatch("run " + path + " -bogus")
	assert.Error(t, err)
}
