package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	f, log, err := FileLogger(logrus.WarnLevel, path)
	require.NoError(t, err)

	log.Info("dropped")
	log.WithField("entity", "dept").Warn("kept")
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "dropped")
	require.Contains(t, string(raw), `"entity":"dept"`)
}

func TestConsoleAndNop(t *testing.T) {
	t.Parallel()

	require.Equal(t, logrus.DebugLevel, ConsoleLogger(logrus.DebugLevel).GetLevel())
	require.Equal(t, logrus.PanicLevel, Nop().GetLevel())
}
