package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetachedCommand(t *testing.T) {
	cmd := DetachedCommand("ydotool", "key", "1:1", "1:0")

	assert.Equal(t, []string{"ydotool", "key", "1:1", "1:0"}, cmd.Args)
	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
	assert.Nil(t, cmd.Stdout)
	assert.Nil(t, cmd.Stderr)
}
