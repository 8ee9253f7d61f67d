package ports

import (
	"context"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
)

// ListQuery carries the optional list parameters understood by the parts API.
// Zero values are omitted from the request.
type ListQuery struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID string
	From       string
	To         string
}

// Upload is one file part of a multipart submission.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Mutation is a create or update payload.
type Mutation struct {
	Values map[string]string
	Files  []Upload
}

// CatalogAPI covers the resource endpoints of the parts API.
type CatalogAPI interface {
	List(ctx context.Context, s resource.Schema, q ListQuery) (model.Page, error)
	Show(ctx context.Context, s resource.Schema, id string) (model.Record, error)
	Create(ctx context.Context, s resource.Schema, mut Mutation) error
	Update(ctx context.Context, s resource.Schema, id string, mut Mutation) error
	Delete(ctx context.Context, s resource.Schema, id string) error
	SearchProducts(ctx context.Context, q ListQuery) (model.Page, error)
	ServiceTitles(ctx context.Context) ([]model.Record, error)
	SendInquiry(ctx context.Context, req model.InquiryRequest) error
}

// AuthAPI covers the credential endpoints of the parts API.
type AuthAPI interface {
	Login(ctx context.Context, c domainauth.Credentials) error
	SendOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in domainauth.PasswordReset) error
}

// PartsAPI is the full upstream client.
type PartsAPI interface {
	CatalogAPI
	AuthAPI
}
