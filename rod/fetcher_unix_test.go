//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/deliver/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestBrowserManager_Close_StopsChrome(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	pid := manager.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, processAlive(pid))

	require.NoError(t, manager.Close())

	assert.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 50*time.Millisecond)
}

func TestBrowserManager_Relaunch_StopsOldChrome(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	old := manager.LauncherPID()
	manager.CountPage()
	require.NotNil(t, manager.Browser())

	assert.NotEqual(t, old, manager.LauncherPID())
	assert.Eventually(t, func() bool { return !processAlive(old) }, 2*time.Second, 50*time.Millisecond)
}
