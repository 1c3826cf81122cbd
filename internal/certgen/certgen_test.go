package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func parseCert(t *testing.T, certPEM []byte) *x509.Certificate {
	t.Helper()
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("invalid certificate PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("parse cert: %v", err)
	}
	return cert
}

func TestGenerateServerCertificate(t *testing.T) {
	certPEM, keyPEM, err := GenerateServerCertificate([]string{"localhost", " 127.0.0.1 ", ""}, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cert := parseCert(t, certPEM)
	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %q; want localhost", cert.Subject.CommonName)
	}
	if !reflect.DeepEqual(cert.DNSNames, []string{"localhost"}) {
		t.Errorf("DNSNames = %v", cert.DNSNames)
	}
	if len(cert.IPAddresses) != 1 || cert.IPAddresses[0].String() != "127.0.0.1" {
		t.Errorf("IPAddresses = %v", cert.IPAddresses)
	}
	if len(cert.ExtKeyUsage) != 1 || cert.ExtKeyUsage[0] != x509.ExtKeyUsageServerAuth {
		t.Errorf("ExtKeyUsage = %v", cert.ExtKeyUsage)
	}
	if d := cert.NotAfter.Sub(cert.NotBefore); d < 24*time.Hour || d > 25*time.Hour {
		t.Errorf("validity = %v", d)
	}
	if err := cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature); err != nil {
		t.Errorf("certificate is not self-signed: %v", err)
	}
	if err := cert.VerifyHostname("localhost"); err != nil {
		t.Errorf("VerifyHostname: %v", err)
	}

	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Errorf("cert and key do not match: %v", err)
	}
}

func TestGenerateServerCertificate_Invalid(t *testing.T) {
	if _, _, err := GenerateServerCertificate([]string{" "}, time.Hour); err == nil {
		t.Error("expected error for empty hosts")
	}
	if _, _, err := GenerateServerCertificate([]string{"localhost"}, 0); err == nil {
		t.Error("expected error for zero validity")
	}
}

func TestWriteFiles(t *testing.T) {
	certPEM, keyPEM, err := GenerateServerCertificate([]string{"localhost"}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "nested", "certs")
	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	if err := WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err != nil {
		t.Errorf("LoadX509KeyPair: %v", err)
	}
	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("key permissions = %v; want owner-only", perm)
	}
}
