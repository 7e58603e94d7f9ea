package root_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"fjacquet/budget-csv/cmd/files"
	"fjacquet/budget-csv/cmd/importer"
	"fjacquet/budget-csv/cmd/root"
	"fjacquet/budget-csv/cmd/stats"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerOnce sync.Once

func setupRoot() {
	registerOnce.Do(func() {
		root.Init()
		root.Cmd.AddCommand(importer.Cmd, files.Cmd, stats.Cmd)
	})
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "budget-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "bank statement CSV")
	assert.Contains(t, root.Cmd.Long, "categorizes each transaction")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	setupRoot()

	tests := []struct {
		name     string
		defValue string
	}{
		{"config", ""},
		{"data", ""},
		{"backend", ""},
		{"log-level", ""},
		{"output-format", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}

	// a second Init must not redefine the flags
	assert.NotPanics(t, root.Init)
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestGetContainer_NotInitialized(t *testing.T) {
	root.AppContainer = nil
	_, err := root.GetContainer()
	assert.Error(t, err)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)

	saved := root.SharedFlags
	defer func() { root.SharedFlags = saved }()
	root.SharedFlags = root.CommonFlags{
		DataPath: filepath.Join(home, "ledger.db"),
		Backend:  "SQLite",
		LogLevel: "DEBUG",
	}

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "ledger.db"), cfg.Data.Path)
	assert.Equal(t, "sqlite", cfg.Data.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestCommandLine_ImportAndReport(t *testing.T) {
	setupRoot()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)

	statement := filepath.Join(home, "october.csv")
	content := "Dato;Tekst;Val;= Indsat / = Hævet;Saldo\n" +
		"01.10.2025;Løn;01.10;\"15000,00\";\"25000,00\"\n" +
		"02.10.2025;Husleje;02.10;\"6500,00-\";\"18174,25\"\n"
	require.NoError(t, os.WriteFile(statement, []byte(content), 0600))
	dataPath := filepath.Join(home, "ledger.json")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root.Cmd.SetOut(&out)
		root.Cmd.SetErr(&out)
		root.Cmd.SetArgs(append(args, "--data", dataPath, "--log-level", "error"))
		require.NoError(t, root.Cmd.Execute(), out.String())
		return out.String()
	}
	defer root.Cmd.SetOut(nil)
	defer root.Cmd.SetErr(nil)

	out := run("import", "-i", statement)
	assert.Contains(t, out, "Imported 2 transactions from october.csv")
	assert.Nil(t, root.AppContainer)

	out = run("stats", "monthly", "--output-format", "json")
	var monthly []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &monthly), out)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2025-10", monthly[0]["month"])
	assert.Equal(t, 15000.0, monthly[0]["income"])
	assert.Equal(t, 6500.0, monthly[0]["expenses"])

	out = run("files", "list", "--output-format", "text")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "october.csv")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
