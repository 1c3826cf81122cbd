// Package main writes a self-signed development certificate for the menu
// server. Point TLS_CERT_FILE and TLS_KEY_FILE at the generated files to
// serve HTTPS.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/CafeMenu/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	days := flag.Int("days", 365, "validity in days")
	flag.Parse()

	certPath, keyPath, err := run(*dir, strings.Split(*hosts, ","), *days)
	if err != nil {
		fmt.Fprintln(os.Stderr, "certgen:", err)
		os.Exit(1)
	}
	fmt.Printf("Certificate written to %s\nKey written to %s\n", certPath, keyPath)
}

// run generates the certificate and writes server.crt and server.key into dir.
func run(dir string, hosts []string, days int) (string, string, error) {
	if days <= 0 {
		return "", "", fmt.Errorf("days must be positive, got %d", days)
	}
	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, time.Duration(days)*24*time.Hour)
	if err != nil {
		return "", "", err
	}
	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		return "", "", err
	}
	return certPath, keyPath, nil
}
