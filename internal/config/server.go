package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/vshulcz/daytally/internal/misc"
)

const (
	defaultListenAndServeAddr = ":8080"
	defaultFilePath           = "data/state.json"
	defaultDSN                = ""
)

type ServerConfig struct {
	Address   string
	File      string
	DSN       string
	AuditFile string
	AuditURL  string
}

// CLI > ENV > defaults
func LoadServerConfig(args []string, out io.Writer) (ServerConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var fileOpt string
	var dsnOpt string
	var auditFileOpt string
	var auditURLOpt string

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("HTTP listen address, default: %s", defaultListenAndServeAddr))
	fs.StringVar(&fileOpt, "f", "", fmt.Sprintf("APP_DATA_PATH for the state file, default: %s", defaultFilePath))
	fs.StringVar(&dsnOpt, "d", "", fmt.Sprintf("DATABASE_DSN for Postgres, default: %s", defaultDSN))
	fs.StringVar(&auditFileOpt, "audit-file", "", "AUDIT_FILE path for the audit log, empty disables it")
	fs.StringVar(&auditURLOpt, "audit-url", "", "AUDIT_URL webhook endpoint, empty disables it")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	addr := addrOpt
	if strings.TrimSpace(addr) == "" {
		addr = misc.Getenv("ADDRESS", "")
	}
	if strings.TrimSpace(addr) == "" {
		if port := strings.TrimSpace(misc.Getenv("PORT", "")); port != "" {
			addr = ":" + port
		} else {
			addr = defaultListenAndServeAddr
		}
	}
	addr = normalizeListenAndServeURL(addr)

	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return ServerConfig{}, fmt.Errorf("invalid listen address: %q", addr)
	}

	file := fileOpt
	if strings.TrimSpace(file) == "" {
		file = misc.Getenv("APP_DATA_PATH", defaultFilePath)
	}

	dsn := misc.Getenv("DATABASE_DSN", defaultDSN)
	if dsn == "" {
		dsn = strings.TrimSpace(dsnOpt)
	}

	auditFile := auditFileOpt
	if strings.TrimSpace(auditFile) == "" {
		auditFile = misc.Getenv("AUDIT_FILE", "")
	}

	auditURL := auditURLOpt
	if strings.TrimSpace(auditURL) == "" {
		auditURL = misc.Getenv("AUDIT_URL", "")
	}

	return ServerConfig{
		Address:   addr,
		File:      file,
		DSN:       dsn,
		AuditFile: auditFile,
		AuditURL:  auditURL,
	}, nil
}

func normalizeListenAndServeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultListenAndServeAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}
