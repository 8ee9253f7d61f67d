package resource

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Names(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{About, Category, Footer, Inquiry, Journey, Product, Service, Slider}, reg.Names())
	assert.Len(t, reg.All(), 8)
}

func TestSchema_ListEndpoint(t *testing.T) {
	reg := DefaultRegistry()

	footer, ok := reg.Get(Footer)
	require.True(t, ok)
	assert.Equal(t, "get/footer/list", footer.ListEndpoint())

	slider, ok := reg.Get(Slider)
	require.True(t, ok)
	assert.Equal(t, "home/list", slider.ListEndpoint())
}

func TestSchema_ValidateRequired(t *testing.T) {
	cat, ok := DefaultRegistry().Get(Category)
	require.True(t, ok)

	errs := cat.Validate(url.Values{"category": {"   "}}, nil, ModeCreate)
	assert.Equal(t, map[string]string{"category": "Category is required."}, errs)

	errs = cat.Validate(url.Values{"category": {"Brakes"}}, nil, ModeCreate)
	assert.Empty(t, errs)
}

func TestSchema_ValidateImageOnlyRequiredOnCreate(t *testing.T) {
	svc, ok := DefaultRegistry().Get(Service)
	require.True(t, ok)
	form := url.Values{"title": {"Wheel alignment"}, "description": {"Laser alignment"}}

	errs := svc.Validate(form, map[string]bool{}, ModeCreate)
	assert.Equal(t, "Image is required.", errs["image"])

	errs = svc.Validate(form, map[string]bool{"image": true}, ModeCreate)
	assert.Empty(t, errs)

	errs = svc.Validate(form, nil, ModeUpdate)
	assert.Empty(t, errs)
}

func TestSchema_ValidateKinds(t *testing.T) {
	footer, ok := DefaultRegistry().Get(Footer)
	require.True(t, ok)

	form := url.Values{
		"companydescription": {"Genuine parts since 1998"},
		"address":            {"12 Main Road"},
		"phone":              {"98ab"},
		"email":              {"not-an-email"},
	}
	errs := footer.Validate(form, nil, ModeCreate)
	assert.Equal(t, "Enter a valid phone number.", errs["phone"])
	assert.Equal(t, "Enter a valid email address.", errs["email"])

	form.Set("phone", "9876543210")
	form.Set("email", "shop@example.com")
	assert.Empty(t, footer.Validate(form, nil, ModeCreate))
}

func TestSchema_ValidateYearAndMaxLen(t *testing.T) {
	journey, ok := DefaultRegistry().Get(Journey)
	require.True(t, ok)

	errs := journey.Validate(url.Values{"year": {"98"}, "title": {strings.Repeat("x", 201)}}, nil, ModeCreate)
	assert.Equal(t, "Year must be a four digit year.", errs["year"])
	assert.Equal(t, "Title cannot exceed 200 characters.", errs["title"])
}

func TestSchema_ValuesSkipsImages(t *testing.T) {
	product, ok := DefaultRegistry().Get(Product)
	require.True(t, ok)

	vals := product.Values(url.Values{"productname": {"  Clutch plate "}, "category_id": {"3"}, "image": {"x"}})
	assert.Equal(t, "Clutch plate", vals["productname"])
	assert.Equal(t, "3", vals["category_id"])
	_, hasImage := vals["image"]
	assert.False(t, hasImage)
}

func TestSchema_ColumnsAndImageField(t *testing.T) {
	product, ok := DefaultRegistry().Get(Product)
	require.True(t, ok)

	cols := product.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "image", cols[0].Name)

	f, ok := product.ImageField()
	require.True(t, ok)
	assert.Equal(t, KindImage, f.Kind)

	cat, _ := DefaultRegistry().Get(Category)
	_, ok = cat.ImageField()
	assert.False(t, ok)
}
