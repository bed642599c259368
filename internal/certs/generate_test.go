package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCertificates_GeneratesLoadablePair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	certPath, keyPath, err := EnsureCertificates(dir)
	require.NoError(t, err)

	_, err = tls.LoadX509KeyPair(certPath, keyPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(certPath)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Contains(t, cert.DNSNames, "localhost")
	assert.Equal(t, "Worldmandia Web", cert.Subject.CommonName)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureCertificates_ReusesExistingPair(t *testing.T) {
	dir := t.TempDir()

	certPath, _, err := EnsureCertificates(dir)
	require.NoError(t, err)
	first, err := os.ReadFile(certPath)
	require.NoError(t, err)

	_, _, err = EnsureCertificates(dir)
	require.NoError(t, err)
	second, err := os.ReadFile(certPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnsureCertificates_RegeneratesWhenKeyMissing(t *testing.T) {
	dir := t.TempDir()

	certPath, keyPath, err := EnsureCertificates(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(keyPath))

	_, _, err = EnsureCertificates(dir)
	require.NoError(t, err)

	_, err = tls.LoadX509KeyPair(certPath, keyPath)
	assert.NoError(t, err)
}
