package logfinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestLogFile(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"logfile-2024-01-01.log",
		"logfile-2024-01-02.log",
		"logfile-2024-01-03.log",
	}

	for i, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
		// Oldest first
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}

	got, err := FindLatestLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, files[len(files)-1], filepath.Base(got))
}

func TestFindLatestLogFile_ModTimeBeatsName(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "logfile-zzz.log")
	newer := filepath.Join(dir, "logfile-aaa.log")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("b"), 0644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	got, err := FindLatestLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestFindLatestLogFile_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "logfile-dir.log"), 0755))

	_, err := FindLatestLogFile(dir)
	assert.ErrorIs(t, err, ErrNoLogFiles)
}

func TestFindLatestLogFile_GlobCharsInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Logs [main] {1}")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "logfile-1.log")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	got, err := FindLatestLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindLatestLogFile_NoFiles(t *testing.T) {
	_, err := FindLatestLogFile(t.TempDir())
	assert.ErrorIs(t, err, ErrNoLogFiles)
}

func TestFindLogDir_EnvVar(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogDir, dir)

	got, err := FindLogDir("")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindLogDir_Explicit(t *testing.T) {
	dir := t.TempDir()
	// Explicit takes priority over env
	t.Setenv(EnvLogDir, "/some/other/path")

	got, err := FindLogDir(dir)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindLogDir_EmptyDirAccepted(t *testing.T) {
	// The client may not have written a log yet.
	dir := t.TempDir()
	_, err := FindLogDir(dir)
	assert.NoError(t, err)
}

func TestFindLogDir_ExplicitInvalid(t *testing.T) {
	_, err := FindLogDir("/nonexistent/path")
	assert.ErrorIs(t, err, ErrLogDirNotFound)
}

func TestFindLogDir_ExplicitIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logfile-1.log")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := FindLogDir(path)
	assert.ErrorIs(t, err, ErrLogDirNotFound)
}

func TestFindLogDir_EnvVarInvalid(t *testing.T) {
	t.Setenv(EnvLogDir, "/nonexistent/path")

	_, err := FindLogDir("")
	assert.ErrorIs(t, err, ErrLogDirNotFound)
}

func TestFindLogDir_DefaultPrefersDirWithLogs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(EnvLogDir, "")

	primary := filepath.Join(home, "DreamBot", "Logs", "DreamBot")
	require.NoError(t, os.MkdirAll(primary, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "DreamBot", "Logs", "logfile-1.log"), []byte("x"), 0644))

	got, err := FindLogDir("")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(home, "DreamBot", "Logs"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
