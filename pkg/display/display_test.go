package display_test

import (
	"testing"

	"github.com/confman/confman/pkg/display"
	"github.com/confman/confman/pkg/source"
	"github.com/confman/confman/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_PlainRendering(t *testing.T) {
	src, dest := testutil.TempRoots(t)
	testutil.WriteFile(t, src, ".vimrc", "x")
	testutil.WriteFile(t, src, "sub/rc.copy", "y")
	testutil.WriteFile(t, src, "_hidden", "z")

	c, err := source.New(source.Params{Source: src, Dest: dest})
	require.NoError(t, err)
	require.NoError(t, c.Analyze())

	out := display.NewRenderer(false).Tree(c)

	assert.Contains(t, out, "[symlink] Symlink: .vimrc => .vimrc")
	assert.Contains(t, out, "[copy] Copy: rc.copy => rc")
	assert.Contains(t, out, "sub\n")
	assert.Contains(t, out, "ignored\n")
	assert.Contains(t, out, "_hidden")
}
