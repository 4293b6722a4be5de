package dig_container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/calendar"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_DATABASE_ENGINE", EngineMemory)

	c := New()
	err := c.Invoke(func(conf *core.Config, repo calendar.Repository, closeDB DBCloser, server *echoapi.Server) {
		assert.Equal(t, EngineMemory, conf.Database.Engine)
		assert.True(t, conf.TestMode)
		assert.NotNil(t, repo)
		assert.NotNil(t, server)
		assert.NoError(t, closeDB())
	})
	require.NoError(t, err)
}
