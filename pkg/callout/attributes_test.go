package callout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mderrors "github.com/virtkit/mdevman/pkg/errors"
	"github.com/virtkit/mdevman/pkg/testutil"
)

func TestGetAttributes(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh",
		`printf '[{"attr0": "VALUE0"}, {"attr1": "VALUE1"}]'
exit 0`)

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)

	attrs, ok := value.([]interface{})
	require.True(t, ok)
	require.Len(t, attrs, 2)
	assert.Equal(t, map[string]interface{}{"attr0": "VALUE0"}, attrs[0])
}

func TestGetAttributesEmptyOutputIsNull(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh", "exit 0")

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestGetAttributesEmptyObjectListNormalized(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh",
		`printf '[{}]'
exit 0`)

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, value)
}

func TestGetAttributesNoClaimIsNull(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-decline.sh", "exit 2")

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestGetAttributesNoScriptsIsNull(t *testing.T) {
	f := newFixture(t)

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestGetAttributesInvalidJSON(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh",
		`printf 'not json at all'
exit 0`)

	_, err := GetAttributes(f.dev)
	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrCalloutJSON))
}

func TestGetAttributesScriptFailure(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh",
		`echo "broken attribute store" >&2
exit 5`)

	c := f.newSession()
	_, err := c.getAttributesDir(f.dev, f.env.CalloutDir())

	assert.True(t, mderrors.IsErrorCode(err, mderrors.ErrCalloutFailure))
	assert.Equal(t, "10-attrs.sh: broken attribute store\n", f.stderr.String())
}

func TestGetAttributesSecondDirClaims(t *testing.T) {
	f := newFixture(t)
	// nothing claims in the admin dir, the system dir provides attributes
	testutil.WriteScript(t, f.env.CalloutDir(), "10-decline.sh", "exit 2")
	systemDir := f.env.Env.CalloutDirs()[1]
	testutil.WriteScript(t, systemDir, "10-attrs.sh",
		`printf '[{"a": "1"}]'
exit 0`)

	value, err := GetAttributes(f.dev)
	require.NoError(t, err)
	attrs, ok := value.([]interface{})
	require.True(t, ok)
	assert.Len(t, attrs, 1)
}

func TestGetAttributesStdinIsEmpty(t *testing.T) {
	f := newFixture(t)
	testutil.WriteScript(t, f.env.CalloutDir(), "10-attrs.sh",
		`wc -c < /dev/stdin > `+f.logPath("stdin-size.log")+`
exit 0`)

	_, err := GetAttributes(f.dev)
	require.NoError(t, err)

	size := testutil.ReadLines(t, f.logPath("stdin-size.log"))
	assert.Equal(t, "0", strings.TrimSpace(size))
}
