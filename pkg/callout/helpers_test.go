package callout

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/virtkit/mdevman/pkg/device"
	"github.com/virtkit/mdevman/pkg/testutil"
)

const (
	testUUID   = "976d8cc2-4bfc-43b9-b9f9-f4af2de91ab9"
	testParent = "0000:00:03.0"
	testType   = "i915-GVTg_V5_4"
)

// testFixture bundles a scratch environment, a device bound to it, and a
// session with captured stderr
type testFixture struct {
	env    *testutil.ScratchEnv
	dev    *device.Device
	stderr bytes.Buffer
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{env: testutil.NewScratchEnv(t)}
	f.dev = device.New(f.env.Env, afero.NewOsFs(), uuid.MustParse(testUUID))
	f.dev.SetParent(testParent)
	f.dev.SetMdevType(testType)
	return f
}

func (f *testFixture) newSession() *Callout {
	c := newCallout()
	c.stderr = &f.stderr
	return c
}

// logPath returns a path for fixture scripts to record into
func (f *testFixture) logPath(name string) string {
	return filepath.Join(f.env.Root, name)
}

// recordingScript writes a script that appends its argument vector to
// logfile and exits with code
func (f *testFixture) recordingScript(t *testing.T, dir, name, logfile string, code int) string {
	t.Helper()
	body := `echo "$@" >> ` + f.logPath(logfile) + `
exit ` + strconv.Itoa(code)
	return testutil.WriteScript(t, dir, name, body)
}
