package transport

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/jfenner/leasesync/pkg/errors"
)

// TLSConfigFromVerify interprets the OPNSENSE_VERIFY_SSL setting. It
// accepts false-like strings to disable verification, a filesystem path
// to a CA bundle to trust, or anything true-like (including empty) for
// normal verification against system roots.
func TLSConfigFromVerify(verify string) (*tls.Config, error) {
	v := strings.ToLower(strings.TrimSpace(verify))

	switch v {
	case "", "true", "1", "yes":
		return nil, nil
	case "false", "0", "no":
		return &tls.Config{InsecureSkipVerify: true}, nil //nolint:gosec // explicit operator opt-out
	}

	// Anything else is treated as a CA bundle path when the file exists.
	if _, err := os.Stat(verify); err != nil {
		return nil, nil
	}

	pem, err := os.ReadFile(verify)
	if err != nil {
		return nil, errors.NewConfigError("OPNSENSE_VERIFY_SSL", "cannot read CA bundle", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.NewConfigError("OPNSENSE_VERIFY_SSL", "no certificates found in CA bundle "+verify, nil)
	}
	return &tls.Config{RootCAs: pool}, nil
}
