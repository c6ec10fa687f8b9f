package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricehistory/ledger"
)

const priceHeader = "年份,特材代碼,特材代碼前五碼,核價類別名稱,中英文品名,產品型號/規格,單位,支付點數,申請者簡稱,許可證字號,中文品名,英文品名"

// writeData lays out a base dir with the three default input files in data/.
func writeData(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	data := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))

	files := map[string]string{
		"format_clean.csv":  "核價類別\nA\n",
		"IndexSQL_find.csv": "名稱,功能類別(前5碼)\nA,12345\n",
		"價量調查品項108-112.csv": priceHeader + "\n" +
			"108,1234500001,12345,A,甲 A,M-1,EA,1000,廠商,字第1號,甲,ALPHA\n" +
			"109,1234500002,12345,C,乙 C,M-2,EA,2000,廠商,字第2號,乙,BETA\n" +
			"110,9999900001,99999,A,丙 A,M-3,EA,3000,廠商,字第3號,丙,GAMMA\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(data, name), []byte(body), 0o644))
	}
	return base
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	base := writeData(t)

	stdout, _, err := execute(t, "--base-dir", base, "--log-level", "warn")
	require.NoError(t, err)

	out := filepath.Join(base, "data", "HistoryData.csv")
	assert.Contains(t, stdout, "processing complete: 2 records")
	assert.Contains(t, stdout, "records with 點數變更記錄 = 1: 1")
	assert.Contains(t, stdout, "saved to: "+out)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], ",點數變更記錄"))
	assert.True(t, strings.HasSuffix(lines[1], ",1"))
	assert.True(t, strings.HasSuffix(lines[2], ",0"))
}

func TestRootCommandFailure(t *testing.T) {
	base := t.TempDir()

	stdout, _, err := execute(t, "--base-dir", base, "--log-level", "error")
	require.ErrorIs(t, err, errSearchFailed)
	assert.Contains(t, stdout, "file not found")
	assert.Contains(t, stdout, "format_clean.csv")
	assert.NoFileExists(t, filepath.Join(base, "data", "HistoryData.csv"))
}

func TestRootCommandRejectsArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	require.Error(t, err)
}

func TestRootCommandBadEncoding(t *testing.T) {
	base := writeData(t)
	_, _, err := execute(t, "--base-dir", base, "--encoding", "no-such-charset")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errSearchFailed)
}

func TestRootCommandParquet(t *testing.T) {
	base := writeData(t)
	pq := filepath.Join(t.TempDir(), "history.parquet")

	_, _, err := execute(t, "--base-dir", base, "--parquet", pq, "--log-format", "json")
	require.NoError(t, err)

	f, err := os.Open(pq)
	require.NoError(t, err)
	defer f.Close()

	reader := parquet.NewGenericReader[ledger.Record](f)
	defer reader.Close()
	require.EqualValues(t, 2, reader.NumRows())

	rows := make([]ledger.Record, 2)
	n, _ := reader.Read(rows)
	require.Equal(t, 2, n)
	assert.Equal(t, "1234500001", rows[0].ItemCode)
	assert.Equal(t, int32(1), rows[0].ChangeFlag)
	assert.Equal(t, int32(0), rows[1].ChangeFlag)
}

func TestConfigFromEnv(t *testing.T) {
	base := writeData(t)
	out := filepath.Join(t.TempDir(), "env.csv")
	t.Setenv("HISTORYDATA_BASE_DIR", base)
	t.Setenv("HISTORYDATA_OUTPUT", out)
	t.Setenv("HISTORYDATA_LOG_LEVEL", "error")

	stdout, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved to: "+out)
	assert.FileExists(t, out)
}

func TestConfigFile(t *testing.T) {
	base := writeData(t)
	out := filepath.Join(t.TempDir(), "yaml.csv")
	cfgPath := filepath.Join(t.TempDir(), "historydata.yaml")
	cfg := "base-dir: " + base + "\noutput: " + out + "\nlog-level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved to: "+out)
}

func TestConfigFlagOverridesEnv(t *testing.T) {
	base := writeData(t)
	t.Setenv("HISTORYDATA_BASE_DIR", t.TempDir())

	_, _, err := execute(t, "--base-dir", base, "--log-level", "error")
	require.NoError(t, err)
}

func TestConfigFileMissing(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger("debug", "json", &buf)
	require.NoError(t, err)
	logger.Debug().Str("k", "v").Msg("hello")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	logger, err = newLogger("", "json", &buf)
	require.NoError(t, err)
	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	t.Setenv("NO_COLOR", "1")
	logger, err = newLogger("info", "console", &buf)
	require.NoError(t, err)
	logger.Info().Msg("plain")
	assert.Contains(t, buf.String(), "plain")

	_, err = newLogger("loud", "json", &buf)
	assert.Error(t, err)
	_, err = newLogger("info", "xml", &buf)
	assert.Error(t, err)
}
