// Package gateway adapts the external accounting system clients to the
// reconciler's gateway port.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rentfolio/rentfolio/internal/gateway/poweroffice"
	"github.com/rentfolio/rentfolio/internal/gateway/xledger"
	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/reconcile"
)

// Config carries endpoint configuration for both external systems.
type Config struct {
	PowerOfficeAuthURL string
	PowerOfficeBaseURL string
	XledgerURL         string
	Timeout            time.Duration
}

// Factory builds authenticated gateway sessions per integration.
type Factory struct {
	cfg Config
}

// NewFactory constructs a factory.
func NewFactory(cfg Config) *Factory {
	return &Factory{cfg: cfg}
}

// Connect authenticates against the integration's external system. A missing
// key or a rejected authentication is returned as-is so the reconciler can
// abort the run.
func (f *Factory) Connect(ctx context.Context, integ integrations.Integration) (reconcile.Gateway, error) {
	switch integ.Type {
	case integrations.SystemPowerOfficeGo:
		if integ.ApplicationKey == "" || integ.ClientKey == "" {
			return nil, integrations.ErrMissingCredentials
		}
		client := poweroffice.NewClient(f.cfg.PowerOfficeAuthURL, f.cfg.PowerOfficeBaseURL, f.cfg.Timeout)
		session, err := client.Authenticate(ctx, integ.ApplicationKey, integ.ClientKey)
		if err != nil {
			return nil, err
		}
		return powerOfficeGateway{session: session}, nil
	case integrations.SystemXledger:
		if integ.APIToken == "" {
			return nil, integrations.ErrMissingCredentials
		}
		client := xledger.NewClient(f.cfg.XledgerURL, integ.APIToken, f.cfg.Timeout)
		if err := client.Verify(ctx); err != nil {
			return nil, err
		}
		return xledgerGateway{client: client}, nil
	default:
		return nil, fmt.Errorf("gateway: unsupported system type %q", integ.Type)
	}
}

type powerOfficeGateway struct {
	session *poweroffice.Session
}

func (g powerOfficeGateway) Accounts(ctx context.Context) ([]reconcile.ExternalAccount, error) {
	accounts, err := g.session.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, reconcile.ExternalAccount{Code: a.Code, VATCode: a.VATCode, Description: a.Description})
	}
	return out, nil
}

func (g powerOfficeGateway) Departments(ctx context.Context) ([]reconcile.ExternalEntry, error) {
	departments, err := g.session.Departments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalEntry, 0, len(departments))
	for _, d := range departments {
		out = append(out, reconcile.ExternalEntry{Code: d.Code, Description: d.Name})
	}
	return out, nil
}

func (g powerOfficeGateway) Projects(ctx context.Context) ([]reconcile.ExternalEntry, error) {
	projects, err := g.session.Projects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalEntry, 0, len(projects))
	for _, p := range projects {
		out = append(out, reconcile.ExternalEntry{Code: p.Code, Description: p.Name})
	}
	return out, nil
}

type xledgerGateway struct {
	client *xledger.Client
}

func (g xledgerGateway) Accounts(ctx context.Context) ([]reconcile.ExternalAccount, error) {
	accounts, err := g.client.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, reconcile.ExternalAccount{Code: a.Code, VATCode: a.TaxRule, Description: a.Description})
	}
	return out, nil
}

// Departments maps to Xledger general ledger objects, which model branches.
func (g xledgerGateway) Departments(ctx context.Context) ([]reconcile.ExternalEntry, error) {
	objects, err := g.client.GLObjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalEntry, 0, len(objects))
	for _, o := range objects {
		out = append(out, reconcile.ExternalEntry{Code: o.Code, Description: o.Description})
	}
	return out, nil
}

func (g xledgerGateway) Projects(ctx context.Context) ([]reconcile.ExternalEntry, error) {
	projects, err := g.client.Projects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.ExternalEntry, 0, len(projects))
	for _, p := range projects {
		out = append(out, reconcile.ExternalEntry{Code: p.Code, Description: p.Description})
	}
	return out, nil
}
