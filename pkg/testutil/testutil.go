// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"path/filepath"

	"src.tomato.sh/pkg/must"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer is the subset of [testing.TB] needed by the functions here.
type TempDirer interface {
	Cleanuper
	TempDir() string
}

// TempDir returns a temporary directory for the test, with symlinks
// resolved. The directory is removed when the test finishes.
func TempDir(t TempDirer) string {
	return must.OK1(filepath.EvalSymlinks(t.TempDir()))
}

// InTempDir is like TempDir, but also changes into the directory, and changes
// back to the working directory when the test finishes. It returns the
// directory.
func InTempDir(t TempDirer) string {
	dir := TempDir(t)
	Chdir(t, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when the test finishes.
func Chdir(c Cleanuper, dir string) {
	oldWd := must.OK1(os.Getwd())
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(oldWd)) })
}

// Set sets *p to v for the duration of a test.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable for the duration of a test. It returns
// value.
func Setenv(c Cleanuper, name, value string) string {
	saveEnv(c, name)
	os.Setenv(name, value)
	return value
}

// Unsetenv unsets an environment variable for the duration of a test.
func Unsetenv(c Cleanuper, name string) {
	saveEnv(c, name)
	os.Unsetenv(name)
}

func saveEnv(c Cleanuper, name string) {
	oldValue, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, oldValue) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}
