package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/shapedup/internal/version"
)

func TestShort(t *testing.T) {
	assert.NotEmpty(t, version.Short())
}

func TestInfo(t *testing.T) {
	info := version.Info()

	assert.True(t, strings.HasPrefix(info, "shapedup "))
	assert.Contains(t, info, runtime.Version())
	assert.Contains(t, info, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, info, "Commit: "+version.Commit)
}

func TestShort_PrefersLdflags(t *testing.T) {
	old := version.Version
	t.Cleanup(func() { version.Version = old })

	version.Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", version.Short())
	assert.Contains(t, version.Info(), "shapedup v1.2.3")
}
