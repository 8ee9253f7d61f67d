// Package session contains hand-written test doubles for the session ports.
// They are lightweight and need no codegen.
package session

import (
	"context"
	"net/http"
	"sync"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionProvider = (*FakeProvider)(nil)
	_ ports.SessionBackend  = (*FailingBackend)(nil)
)

// FakeProvider is an in-memory ports.SessionProvider shared by every request.
// It stands in for one browser.
type FakeProvider struct {
	mu     sync.Mutex
	values domainauth.Values

	SetErr   error
	ClearErr error

	SetCalls   int
	ClearCalls int
}

// NewFakeProvider returns a provider whose flag starts with the given raw value.
// An empty raw leaves the flag absent.
func NewFakeProvider(raw string) *FakeProvider {
	p := &FakeProvider{values: domainauth.Values{}}
	if raw != "" {
		p.values[domainauth.FlagKey] = raw
	}
	return p
}

func (p *FakeProvider) SetAuthenticated(context.Context, http.ResponseWriter, *http.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SetCalls++
	if p.SetErr != nil {
		return p.SetErr
	}
	p.values[domainauth.FlagKey] = domainauth.FlagTrue
	return nil
}

func (p *FakeProvider) ClearAuthenticated(context.Context, http.ResponseWriter, *http.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClearCalls++
	if p.ClearErr != nil {
		return p.ClearErr
	}
	p.values = domainauth.Values{}
	return nil
}

func (p *FakeProvider) IsAuthenticated(*http.Request) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Authenticated()
}

// Values returns a copy of the stored values.
func (p *FakeProvider) Values() domainauth.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values.Clone()
}

// FailingBackend is a ports.SessionBackend whose operations return Err.
type FailingBackend struct {
	Err error
}

func (b FailingBackend) Load(context.Context, *http.Request) (domainauth.Values, error) {
	return domainauth.Values{}, b.Err
}

func (b FailingBackend) Save(context.Context, http.ResponseWriter, *http.Request, domainauth.Values) error {
	return b.Err
}

func (b FailingBackend) Clear(context.Context, http.ResponseWriter, *http.Request) error {
	return b.Err
}
