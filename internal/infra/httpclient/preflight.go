package httpclient

import (
	"context"
	"crypto/x509"
	"errors"

	"github.com/jugl/opencv-setup/internal/domain"
	"github.com/jugl/opencv-setup/internal/ports"
)

// InstallHints tell the operator how to provide the system trust store that
// HTTPS downloads depend on.
var InstallHints = []string{
	"Install on Linux:",
	"  sudo apt-get install ca-certificates   (or your distribution's equivalent)",
	"Install on Windows:",
	"  certutil -generateSSTFromWU roots.sst && certutil -addstore -f root roots.sst",
}

// TrustStorePreflight checks that the system root certificates can be loaded.
type TrustStorePreflight struct {
	loadRoots func() (*x509.CertPool, error)
}

func NewTrustStorePreflight() *TrustStorePreflight {
	return &TrustStorePreflight{loadRoots: x509.SystemCertPool}
}

var _ ports.Preflight = (*TrustStorePreflight)(nil)

func (p *TrustStorePreflight) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pool, err := p.loadRoots()
	if err == nil && pool == nil {
		err = errors.New("system certificate pool is empty")
	}
	if err != nil {
		return &domain.OpError{
			Op:   "httpclient.preflight",
			Kind: domain.KindMissingDependency,
			Err:  err,
		}
	}
	return nil
}
