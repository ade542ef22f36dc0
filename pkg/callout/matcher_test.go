package callout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtkit/mdevman/pkg/testutil"
)

func TestMatcherSkipsDecliningScripts(t *testing.T) {
	f := newFixture(t)
	dir := f.env.CalloutDir()

	f.recordingScript(t, dir, "00-decline.sh", "decline.log", 2)
	claimer := f.recordingScript(t, dir, "10-claim.sh", "claim.log", 0)
	f.recordingScript(t, dir, "20-later.sh", "later.log", 0)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, dir, EventPre, ActionDefine)

	require.NotNil(t, res)
	assert.Equal(t, claimer, script)
	assert.True(t, res.success())

	// the declining script was offered the event, the one after the
	// claimer was not
	assert.NotEmpty(t, testutil.ReadLines(t, f.logPath("decline.log")))
	assert.NotEmpty(t, testutil.ReadLines(t, f.logPath("claim.log")))
	assert.Empty(t, testutil.ReadLines(t, f.logPath("later.log")))
}

func TestMatcherOrderIsLexicographic(t *testing.T) {
	f := newFixture(t)
	dir := f.env.CalloutDir()

	// created out of order on purpose; the scan must still be sorted
	f.recordingScript(t, dir, "30-c.sh", "c.log", 0)
	f.recordingScript(t, dir, "10-a.sh", "a.log", 0)
	f.recordingScript(t, dir, "20-b.sh", "b.log", 0)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, dir, EventPre, ActionDefine)

	require.NotNil(t, res)
	assert.Contains(t, script, "10-a.sh")
	assert.Empty(t, testutil.ReadLines(t, f.logPath("b.log")))
	assert.Empty(t, testutil.ReadLines(t, f.logPath("c.log")))
}

func TestMatcherNonzeroExitIsAClaim(t *testing.T) {
	f := newFixture(t)
	dir := f.env.CalloutDir()

	failing := f.recordingScript(t, dir, "10-fail.sh", "fail.log", 3)
	f.recordingScript(t, dir, "20-ok.sh", "ok.log", 0)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, dir, EventPre, ActionDefine)

	require.NotNil(t, res)
	assert.Equal(t, failing, script)
	assert.Equal(t, 3, res.exitCode)
	assert.Empty(t, testutil.ReadLines(t, f.logPath("ok.log")))
}

func TestMatcherSkipsSignalTerminatedScripts(t *testing.T) {
	f := newFixture(t)
	dir := f.env.CalloutDir()

	testutil.WriteScript(t, dir, "00-killed.sh", "kill -KILL $$")
	claimer := f.recordingScript(t, dir, "10-claim.sh", "claim.log", 0)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, dir, EventPre, ActionDefine)

	require.NotNil(t, res)
	assert.Equal(t, claimer, script)
}

func TestMatcherNoClaim(t *testing.T) {
	f := newFixture(t)
	dir := f.env.CalloutDir()

	f.recordingScript(t, dir, "00-decline.sh", "d0.log", 2)
	f.recordingScript(t, dir, "10-decline.sh", "d1.log", 2)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, dir, EventPre, ActionDefine)

	assert.Empty(t, script)
	assert.Nil(t, res)
}

func TestMatcherMissingDirIsNoMatch(t *testing.T) {
	f := newFixture(t)

	c := f.newSession()
	script, res := c.firstMatchingScript(f.dev, "/does/not/exist", EventPre, ActionDefine)

	assert.Empty(t, script)
	assert.Nil(t, res)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, outcomeClaimed, classify(&scriptResult{exitCode: 0}))
	assert.Equal(t, outcomeClaimed, classify(&scriptResult{exitCode: 1}))
	assert.Equal(t, outcomeDeclined, classify(&scriptResult{exitCode: 2}))
	assert.Equal(t, outcomeClaimed, classify(&scriptResult{exitCode: 3}))
	assert.Equal(t, outcomeSkipped, classify(&scriptResult{signaled: true}))
}
