package validation

import (
	"strings"
	"testing"

	cerrors "cirrus/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestServiceName(t *testing.T) {
	assert.NoError(t, ServiceName("compute"))
	assert.NoError(t, ServiceName("admin-api"))
	assert.NoError(t, ServiceName("svc.v2"))

	assert.Error(t, ServiceName(""))
	assert.Error(t, ServiceName(".hidden"))
	assert.Error(t, ServiceName("a/b"))
	assert.Error(t, ServiceName(strings.Repeat("x", 65)))
}

func TestManagerName(t *testing.T) {
	assert.NoError(t, ManagerName(""))
	assert.NoError(t, ManagerName("compute"))
	assert.Error(t, ManagerName("Compute"))
	assert.Error(t, ManagerName("9lives"))
}

func TestBucketAndObjectNames(t *testing.T) {
	assert.NoError(t, BucketName("images"))
	assert.NoError(t, ObjectName("disk.qcow2"))

	for _, bad := range []string{"", "..", "../etc", "a/b", ".dot"} {
		assert.Error(t, BucketName(bad), bad)
		assert.Error(t, ObjectName(bad), bad)
	}

	err := BucketName("..")
	assert.True(t, cerrors.HasCode(err, cerrors.ErrInvalidInput))
}

func TestPort(t *testing.T) {
	assert.NoError(t, Port(8774))
	assert.Error(t, Port(0))
	assert.Error(t, Port(70000))
}
