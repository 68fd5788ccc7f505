package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Uid        string `json:"uid"`
	SmtpServer string `json:"smtp_server"`
	Port       int    `json:"port"`
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json", LocalPath("config.json"))
	require.Equal(t, "/a/b/telemetry.local.json5", LocalPath("/a/b/telemetry.json5"))
	require.Equal(t, "config.local", LocalPath("config"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(path, []byte(`{
		// json5 allows comments and trailing commas
		uid: "SA23001",
		smtp_server: "mail.ustc.edu.cn",
		port: 465,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Uid: "SA23001", SmtpServer: "mail.ustc.edu.cn", Port: 465}, cfg)

	err = os.WriteFile(LocalPath(path), []byte(`{"port": 994}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{Uid: "SA23001", SmtpServer: "mail.ustc.edu.cn", Port: 994}, cfg)
}

func TestReadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{uid: `), 0600)
	require.NoError(t, err)

	_, err = ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte("  \n"), 0600)
	require.NoError(t, err)

	_, err = ReadConfig[testConfig](path)
	require.ErrorIs(t, err, ErrEmpty)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
