// Package reporting writes an EvaluationResult to durable storage: the
// canonical JSON sink, optionally gzip-compressed and HMAC-signed, plus
// PDF/Excel export formats for the dual report (scanner metrics +
// subject assessment).
package reporting

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/hkdf"
)

// Writer persists an evaluation result to a single append-only file per
// run, per the one-sink rule (no database, no object store).
type Writer struct {
	// Compress gzips the JSON payload before writing.
	Compress bool
	// SigningKey, if non-empty, HMAC-signs the (possibly compressed)
	// payload; the signature is written alongside as "<path>.sig".
	SigningKey []byte
}

// NewWriter constructs a Writer. An empty signingKey disables signing.
func NewWriter(compress bool, signingKey []byte) *Writer {
	return &Writer{Compress: compress, SigningKey: signingKey}
}

// Write serializes result as JSON to path, applying compression and
// signing per the Writer's configuration.
func (w *Writer) Write(result interface{}, path string) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshaling result: %w", err)
	}

	payload := raw
	if w.Compress {
		payload, err = gzipBytes(raw)
		if err != nil {
			return fmt.Errorf("reporting: compressing result: %w", err)
		}
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("reporting: writing %s: %w", path, err)
	}

	if len(w.SigningKey) > 0 {
		sig, err := sign(w.SigningKey, payload)
		if err != nil {
			return fmt.Errorf("reporting: signing %s: %w", path, err)
		}
		if err := os.WriteFile(path+".sig", []byte(sig), 0o644); err != nil {
			return fmt.Errorf("reporting: writing signature for %s: %w", path, err)
		}
	}

	return nil
}

// WritePersisted writes result under resultsDir using the evaluation's
// persisted-state filename convention, "eval_{id}.json", creating
// resultsDir if it does not already exist. Returns the path written.
func (w *Writer) WritePersisted(result interface{}, resultsDir, id string) (string, error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("reporting: creating results directory %s: %w", resultsDir, err)
	}
	path := filepath.Join(resultsDir, fmt.Sprintf("eval_%s.json", id))
	if err := w.Write(result, path); err != nil {
		return "", err
	}
	return path, nil
}

// Verify reports whether sig (as produced alongside Write) matches
// payload under key.
func Verify(key, payload []byte, sig string) (bool, error) {
	expected, err := sign(key, payload)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(sig)), nil
}

// sign derives a MAC key from key via HKDF and returns a hex-encoded
// HMAC-SHA256 signature. The derivation uses a fixed info label and no
// salt, so every payload signed under the same key uses the same
// derived MAC key; key itself is never used as the MAC key directly.
func sign(key, payload []byte) (string, error) {
	derived := make([]byte, 32)
	kdf := hkdf.New(sha256.New, key, nil, []byte("a2aeval-report-signature"))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return "", fmt.Errorf("deriving signing key: %w", err)
	}
	mac := hmac.New(sha256.New, derived)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func gzipBytes(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
