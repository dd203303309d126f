package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japonophile/mm/internal/source"
)

func TestLoad_NoInclusions(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$c wff $.\n$v x $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	assert.Equal(t, "$c wff $.\n$v x $.\n", string(buf))
}

func TestLoad_SimpleInclusion(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$c a $.\n$[ xyz.mm $]\n$v n $.\n"),
		"xyz.mm":  []byte("$v x y z $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	assert.Equal(t, "$c a $.\n$v x y z $.\n\n$v n $.\n", string(buf))
}

func TestLoad_IncludeOnce(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$[ a.mm $]\n$[ a.mm $]\n"),
		"a.mm":    []byte("$c wff $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	// Second inclusion of the same resolved path substitutes empty.
	assert.Equal(t, "$c wff $.\n\n\n", string(buf))
}

func TestLoad_NestedInclusion(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$[ a.mm $]\n"),
		"a.mm":    []byte("$[ b.mm $]\n$v y $.\n"),
		"b.mm":    []byte("$v x $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	assert.Equal(t, "$v x $.\n\n$v y $.\n\n", string(buf))
}

func TestLoad_InclusionInsideBlockLeftForParser(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("${\n$[ a.mm $]\n$}\n"),
		"a.mm":    []byte("$c wff $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	// Left untouched: the parser will see the literal directive and
	// raise "inclusion only at top level".
	assert.Equal(t, "${\n$[ a.mm $]\n$}\n", string(buf))
}

func TestLoad_CommentNotTreatedAsInclusion(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$( this mentions $[ a.mm $] but is a comment $)\n$c wff $.\n"),
	}
	buf, err := source.Load("root.mm", fr)
	require.NoError(t, err)
	assert.Equal(t, "$( this mentions $[ a.mm $] but is a comment $)\n$c wff $.\n", string(buf))
}

func TestLoad_MissingFile(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$[ missing.mm $]\n"),
	}
	_, err := source.Load("root.mm", fr)
	require.Error(t, err)
}

func TestLoad_MalformedInclusion(t *testing.T) {
	fr := source.MapFileReader{
		"root.mm": []byte("$[ a.mm \n"),
	}
	_, err := source.Load("root.mm", fr)
	require.Error(t, err)
}
