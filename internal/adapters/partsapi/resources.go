package partsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

func listQuery(q ports.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.CategoryID != "" {
		v.Set("category_id", q.CategoryID)
	}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	return v
}

func (c *Client) List(ctx context.Context, s resource.Schema, q ports.ListQuery) (model.Page, error) {
	env, err := c.do(ctx, call{
		resource:    s.Name,
		op:          "list",
		method:      http.MethodGet,
		public:      s.PublicBase,
		path:        s.ListEndpoint(),
		query:       listQuery(q),
		failMessage: "Failed to load " + strings.ToLower(s.Title) + ".",
	})
	if err != nil {
		return model.Page{}, err
	}
	return env.page(), nil
}

func (c *Client) Show(ctx context.Context, s resource.Schema, id string) (model.Record, error) {
	env, err := c.do(ctx, call{
		resource:    s.Name,
		op:          "show",
		method:      http.MethodGet,
		public:      s.PublicBase,
		path:        s.Endpoint + "/show/" + url.PathEscape(id),
		failMessage: s.Title + " not found.",
	})
	if err != nil {
		return nil, err
	}
	rows := env.records()
	if len(rows) == 0 {
		return nil, apperrors.NotFoundf("%s %s not found", s.Name, id)
	}
	return rows[0], nil
}

func (c *Client) Create(ctx context.Context, s resource.Schema, m ports.Mutation) error {
	return c.mutate(ctx, s, "create", s.Endpoint+"/register", m)
}

func (c *Client) Update(ctx context.Context, s resource.Schema, id string, m ports.Mutation) error {
	return c.mutate(ctx, s, "update", s.Endpoint+"/update/"+url.PathEscape(id), m)
}

// mutate posts m as multipart when the schema carries images, JSON otherwise.
// The API accepts POST for both register and update.
func (c *Client) mutate(ctx context.Context, s resource.Schema, op, path string, m ports.Mutation) error {
	in := call{
		resource:    s.Name,
		op:          op,
		method:      http.MethodPost,
		public:      s.PublicBase,
		path:        path,
		failMessage: "Operation failed",
	}

	var err error
	if s.Multipart {
		in.body, in.contentType, err = multipartBody(m)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
		}
	} else {
		if in.body, err = jsonBody(m.Values); err != nil {
			return err
		}
		in.contentType = "application/json"
	}

	_, err = c.do(ctx, in)
	return err
}

func (c *Client) Delete(ctx context.Context, s resource.Schema, id string) error {
	_, err := c.do(ctx, call{
		resource:    s.Name,
		op:          "delete",
		method:      http.MethodDelete,
		public:      s.PublicBase,
		path:        s.Endpoint + "/destroy/" + url.PathEscape(id),
		failMessage: "Failed to delete " + strings.ToLower(s.Title) + ".",
	})
	return err
}

// SearchProducts uses the search endpoint when a term or category is given
// and the plain product list otherwise.
func (c *Client) SearchProducts(ctx context.Context, q ports.ListQuery) (model.Page, error) {
	path := "product/list"
	if strings.TrimSpace(q.Search) != "" || q.CategoryID != "" {
		path = "product/productserachlist"
	}
	env, err := c.do(ctx, call{
		resource:    resource.Product,
		op:          "search",
		method:      http.MethodGet,
		path:        path,
		query:       listQuery(q),
		failMessage: "Failed to fetch products",
	})
	if err != nil {
		return model.Page{}, err
	}
	return env.page(), nil
}

// ServiceTitles returns the id/title pairs shown in the footer.
func (c *Client) ServiceTitles(ctx context.Context) ([]model.Record, error) {
	env, err := c.do(ctx, call{
		resource: resource.Service,
		op:       "titles",
		method:   http.MethodGet,
		path:     "service/showtitle",
	})
	if err != nil {
		return nil, err
	}
	return env.records(), nil
}

func (c *Client) SendInquiry(ctx context.Context, req model.InquiryRequest) error {
	body, err := jsonBody(req)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, call{
		resource:    resource.Inquiry,
		op:          "send",
		method:      http.MethodPost,
		path:        "inquiry/sendmail",
		body:        body,
		contentType: "application/json",
		failMessage: "Failed to send inquiry. Please try again.",
	})
	return err
}
