package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bolinasrbc/spotcheck"
)

func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("Abs() failed: %v", err)
	}
	return path
}

func sourceArgs(t *testing.T) []string {
	return []string{
		"-i", testdata(t, "memlist.csv"),
		"-C", testdata(t, "contacts.csv"),
		"-A", testdata(t, "applicants.txt"),
		"-X", testdata(t, "extra_fees.txt"),
	}
}

// execute runs the root command with output captured.
func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_Client_Singleton verifies that Client() returns the same instance.
func TestApp_Client_Singleton(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	c1, err := app.Client()
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	c2, err := app.Client()
	if err != nil {
		t.Fatalf("Client() failed on second call: %v", err)
	}
	if c1 != c2 {
		t.Error("Client() returned different instances, expected singleton")
	}

	c3, err := app.ClientWithOptions(spotcheck.WithDetail(true))
	if err != nil {
		t.Fatalf("ClientWithOptions() failed: %v", err)
	}
	if c3 == c1 {
		t.Error("ClientWithOptions() returned the cached instance")
	}
}

// TestApp_Client_ThreadSafe verifies concurrent Client() calls are safe.
func TestApp_Client_ThreadSafe(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]spotcheck.Client, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Goroutine %d: Client() failed: %v", i, err)
		}
	}
	for i, c := range results[1:] {
		if c != results[0] {
			t.Errorf("Goroutine %d got different client instance", i+1)
		}
	}
}

// TestApp_Shutdown verifies shutdown drops the cached client.
func TestApp_Shutdown(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := app.Client(); err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if app.client != nil {
		t.Error("Shutdown() kept the client")
	}
}

// TestApp_WithConfig verifies options are validated.
func TestApp_WithConfig(t *testing.T) {
	if _, err := New("1.0.0", "test", "2024-01-01", "test", WithConfig(&Config{})); err == nil {
		t.Error("WithConfig() accepted a config without club settings")
	}
}

// TestApp_ExecuteCheck runs the check command end to end.
func TestApp_ExecuteCheck(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	args := append([]string{"check", "-q", "--title", "Audit"}, sourceArgs(t)...)
	out, err := execute(t, app, args...)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.HasPrefix(out, "Audit\n=====\n") {
		t.Errorf("report does not start with the title:\n%s", out)
	}
	if !app.Quiet() {
		t.Error("--quiet was not applied")
	}
}

// TestApp_ExecuteConfigFlag verifies --config reloads the club settings.
func TestApp_ExecuteConfigFlag(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "club.yaml")
	content := strings.Join([]string{
		"ledger: " + testdata(t, "memlist.csv"),
		"contacts: " + testdata(t, "contacts.csv"),
		"applicants: " + testdata(t, "applicants.txt"),
		"fees: " + testdata(t, "extra_fees.txt"),
		"title: From Config",
		"report_status: false",
		"",
	}, "\n")
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	out, err := execute(t, app, "check", "-q", "--config", file)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.HasPrefix(out, "From Config\n") {
		t.Errorf("title from config file not used:\n%s", out)
	}
	if strings.Contains(out, "Members /w 'status' Content") {
		t.Error("report_status: false was ignored")
	}
	if app.Settings().ConfigFile != file {
		t.Errorf("ConfigFile = %q, want %q", app.Settings().ConfigFile, file)
	}
}

// TestApp_ExecuteBadConfig verifies a broken config file is an error.
func TestApp_ExecuteBadConfig(t *testing.T) {
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := execute(t, app, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing --config file was not reported")
	}
}

// TestApp_Version verifies the version template.
func TestApp_Version(t *testing.T) {
	app, err := New("2.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	out, err := execute(t, app, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if out != "spotcheck 2.0.0\n" {
		t.Errorf("--version = %q", out)
	}
}
