package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterBuffersUntilFlush(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello ")
	w.Write("%s!", "world")
	assert.Equal(t, "hello world!", w.String())

	require.NoError(t, w.Flush())
	assert.Empty(t, w.String(), "Flush must reset the buffer")
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "ParseError", ParseError.String())
	assert.Equal(t, "UnknownError", ErrorKind(999).String())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}

func TestCompileErrorFormatsWithAndWithoutPosition(t *testing.T) {
	bare := NewError(IRError, Position{}, "bad thing: %d", 42)
	assert.Equal(t, "IRError: bad thing: 42", bare.Error())

	positioned := NewError(LexError, Position{Line: 1, Column: 5}, "unexpected char")
	assert.Equal(t, "LexError at 1:5: unexpected char", positioned.Error())
}

func TestParseRunArgsRequiresSourcePath(t *testing.T) {
	_, err := ParseRunArgs(nil)
	assert.Error(t, err)
}

func TestParseRunArgsParsesAllFlags(t *testing.T) {
	opt, err := ParseRunArgs([]string{"prog.vsl", "-ast", "-sakir", "-rawllvm", "-llvmir", "-ts", "-vb"})
	require.NoError(t, err)
	assert.Equal(t, "prog.vsl", opt.Src)
	assert.True(t, opt.AST)
	assert.True(t, opt.SAKIR)
	assert.True(t, opt.RawLLVM)
	assert.True(t, opt.LLVMIR)
	assert.True(t, opt.TS)
	assert.True(t, opt.Verbose)
}

func TestParseRunArgsRejectsUnknownFlag(t *testing.T) {
	_, err := ParseRunArgs([]string{"prog.vsl", "-nope"})
	assert.Error(t, err)
}

func TestParseRunArgsRejectsExtraPositional(t *testing.T) {
	_, err := ParseRunArgs([]string{"a.vsl", "b.vsl"})
	assert.Error(t, err)
}

func TestReadSourceMissingFileFails(t *testing.T) {
	_, err := ReadSource("/does/not/exist.vsl")
	assert.Error(t, err)
}
