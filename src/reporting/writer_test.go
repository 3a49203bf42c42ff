package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleResult struct {
	Score int `json:"score"`
}

func TestWriter_WritesPlainJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.json")

	w := NewWriter(false, nil)
	require.NoError(t, w.Write(sampleResult{Score: 42}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got sampleResult
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 42, got.Score)

	_, err = os.Stat(path + ".sig")
	assert.True(t, os.IsNotExist(err), "no signature file expected without a signing key")
}

func TestWriter_SignsWhenKeyProvided(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.json")

	w := NewWriter(false, []byte("test-signing-key"))
	require.NoError(t, w.Write(sampleResult{Score: 7}, path))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	sig, err := os.ReadFile(path + ".sig")
	require.NoError(t, err)

	ok, err := Verify([]byte("test-signing-key"), payload, string(sig))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify([]byte("wrong-key"), payload, string(sig))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriter_WritePersistedUsesEvalIDFilenameConvention(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "results")

	w := NewWriter(false, nil)
	path, err := w.WritePersisted(sampleResult{Score: 99}, resultsDir, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resultsDir, "eval_abc-123.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got sampleResult
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 99, got.Score)
}

func TestWriter_WritePersistedCreatesMissingResultsDir(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "nested", "results")

	_, err := os.Stat(resultsDir)
	require.True(t, os.IsNotExist(err))

	w := NewWriter(false, nil)
	_, err = w.WritePersisted(sampleResult{Score: 1}, resultsDir, "xyz")
	require.NoError(t, err)

	info, err := os.Stat(resultsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriter_CompressesWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.json.gz")

	w := NewWriter(true, nil)
	require.NoError(t, w.Write(sampleResult{Score: 1}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// gzip magic bytes
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, byte(0x1f), raw[0])
	assert.Equal(t, byte(0x8b), raw[1])
}
