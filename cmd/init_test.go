package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	e := newBareEnv(t)
	out := e.run("init")
	e.contains(out, "Initialised docver repository")

	assert.FileExists(t, filepath.Join(e.dir, ".docver", "docver.db"))
	assert.DirExists(t, filepath.Join(e.dir, ".docver", "uploads"))
	assert.FileExists(t, filepath.Join(e.dir, ".docver", ".gitignore"))
	assert.NoFileExists(t, filepath.Join(e.dir, ".docver", "config.yaml"))
}

func TestInit_AlreadyInitialised(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.runErr("init")
	require.Error(t, err)
	e.contains(out, "already exists")
}

func TestInit_Force(t *testing.T) {
	e := newTestEnv(t)
	e.add("doc")

	e.run("init", "--force")
	e.equals(e.run("ls", "--raw"), "")
}

func TestInit_NamedDB(t *testing.T) {
	e := newTestEnv(t)
	e.run("init", "--db", "drafts")
	assert.FileExists(t, filepath.Join(e.dir, ".docver", "docver-drafts.db"))
	assert.DirExists(t, filepath.Join(e.dir, ".docver", "uploads-drafts"))

	e.add("main-doc")
	e.run("add", e.write("d.pdf", "%PDF"), "--doc-id", "draft-doc", "--db", "drafts")

	e.contains(e.run("ls", "--raw"), "main-doc")
	out := e.run("ls", "--raw", "--db", "drafts")
	e.contains(out, "draft-doc")
	assert.NotContains(t, out, "main-doc")

	out = e.run("db")
	e.contains(out, "(default)")
	e.contains(out, "docver-drafts.db")
}

func TestNotInitialised(t *testing.T) {
	e := newBareEnv(t)
	out, err := e.runErr("ls")
	require.Error(t, err)
	e.contains(out, "docver not initialised")

	// Bootstrap commands work without a repository.
	e.run("guide")
	e.run("version")
	e.run("config")
}

func TestDir(t *testing.T) {
	e := newBareEnv(t)
	other := t.TempDir()
	e.run("init", "--dir", other)
	assert.FileExists(t, filepath.Join(other, ".docver", "docver.db"))

	e.run("add", e.write("d.pdf", "%PDF"), "--doc-id", "remote", "--dir", other)
	e.contains(e.run("ls", "--raw", "--dir", other), "remote")

	e.env = append(e.env, "DOCVER_DIR="+other)
	e.contains(e.run("ls", "--raw"), "remote")
}

func TestOutputFormat_Invalid(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.runErr("ls", "-o", "yaml")
	require.Error(t, err)
	e.contains(out, "invalid output format")
}
