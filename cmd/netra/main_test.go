package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/netra/internal/hash"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.Reader = strings.NewReader("principal123\n")

	require.NoError(t, app.RunContext(context.Background(), []string{"netra", "hash-password", "--cost", "4"}))

	hashed := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hashed, "$2a$04$"), hashed)
	assert.True(t, hash.CheckPassword(hashed, "principal123"))
	assert.NotContains(t, out.String(), "principal123")
}

func TestHashPasswordCommand_RejectsEmptyStdin(t *testing.T) {
	for _, in := range []string{"", "\n", "\r\n"} {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.Reader = strings.NewReader(in)

		err := app.RunContext(context.Background(), []string{"netra", "hash-password", "--cost", "4"})
		assert.ErrorContains(t, err, "empty input", "%q", in)
	}
}

func TestHashPasswordCommand_NoPasswordFlag(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader("secret\n")

	err := app.RunContext(context.Background(), []string{"netra", "hash-password", "--password", "secret"})
	assert.Error(t, err)
}

func TestReadPassword(t *testing.T) {
	got, err := readPassword(strings.NewReader("s3cret pass\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret pass", got)

	got, err = readPassword(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "netra.db"))
	t.Setenv("ES_URL", "")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")

	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`
users:
  - {username: principal1, password: principal123, role: principal, full_name: Dr. Principal}
students:
  - {roll_no: CS001, name: Asha, student_class: 10A}
`), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.RunContext(context.Background(), []string{"netra", "seed", "--file", seedPath}))
	assert.Equal(t, "imported 1 users, 1 students, 0 timetable rows (0 indexed)\n", out.String())
}

func TestSeedCommand_RejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "netra.db"))

	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("users:\n  - {username: x, password: y, role: admin, full_name: X}\n"), 0o600))

	err := newApp().RunContext(context.Background(), []string{"netra", "seed", "--file", seedPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "admin"`)
}
