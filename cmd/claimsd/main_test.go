package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setEnv(t *testing.T) {
	t.Helper()
	origLogger, origCtx, origLevel := log.Logger, zerolog.DefaultContextLogger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.DefaultContextLogger = origCtx
		zerolog.SetGlobalLevel(origLevel)
	})
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "claims.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"serve": false, "purge": false, "user": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestUserCreate_ThenDuplicate(t *testing.T) {
	setEnv(t)

	out, err := run(t, "user", "create", "--username", "Root", "--password", "change-me-now", "--role", "admin")
	if err != nil {
		t.Fatalf("user create: %v (%s)", err, out)
	}
	if !strings.Contains(out, `created user "root"`) || !strings.Contains(out, "role admin") {
		t.Fatalf("unexpected output: %s", out)
	}

	_, err = run(t, "user", "create", "--username", "root", "--password", "change-me-now")
	if err == nil {
		t.Fatal("expected duplicate username error")
	}
}

func TestUserCreate_RejectsBadInput(t *testing.T) {
	setEnv(t)

	if _, err := run(t, "user", "create", "--username", "jane"); err == nil {
		t.Fatal("expected missing --password error")
	}
	if _, err := run(t, "user", "create", "--username", "jane", "--password", "short"); err == nil {
		t.Fatal("expected short password error")
	}
	if _, err := run(t, "user", "create", "--username", "jane", "--password", "long-enough", "--permission", "claims:fly"); err == nil {
		t.Fatal("expected unknown permission error")
	}
}

func TestPurge_EmptyStore(t *testing.T) {
	setEnv(t)

	out, err := run(t, "purge")
	if err != nil {
		t.Fatalf("purge: %v (%s)", err, out)
	}
	if !strings.Contains(out, "claims purged: 0") || !strings.Contains(out, "idempotency records purged: 0") {
		t.Fatalf("unexpected output: %s", out)
	}

	out, err = run(t, "purge", "--skip-claims")
	if err != nil || strings.Contains(out, "claims purged") {
		t.Fatalf("skip-claims: %v %s", err, out)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	setEnv(t)
	t.Setenv("JWT_SECRET", "short")

	if _, err := run(t, "purge"); err == nil {
		t.Fatal("expected config error")
	}
}
