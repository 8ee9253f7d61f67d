package resource

import "sort"

// Resource names.
const (
	Category = "category"
	Product  = "product"
	Service  = "service"
	Slider   = "slider"
	About    = "about"
	Journey  = "journey"
	Footer   = "footer"
	Inquiry  = "inquiry"
)

// Registry holds the schemas by name.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry builds a registry from schemas. Later duplicates replace earlier ones.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		r.schemas[s.Name] = s
	}
	return r
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns the schemas sorted by name.
func (r *Registry) All() []Schema {
	names := r.Names()
	out := make([]Schema, 0, len(names))
	for _, n := range names {
		out = append(out, r.schemas[n])
	}
	return out
}

// DefaultRegistry returns the schemas of every entity the back office manages.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Schema{
			Name:     Category,
			Title:    "Category",
			Endpoint: "category",
			Fields: []Field{
				{Name: "category", Label: "Category", Kind: KindText, Required: true, MaxLen: 100, ListColumn: true},
			},
		},
		Schema{
			Name:       Product,
			Title:      "Products",
			Endpoint:   "product",
			Paginated:  true,
			Searchable: true,
			Multipart:  true,
			Fields: []Field{
				{Name: "image", Label: "Image", Kind: KindImage, Required: true, ListColumn: true},
				{Name: "productname", Label: "Product Name", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "category_id", Label: "Category", Kind: KindSelect, Required: true, OptionsFrom: Category, ListColumn: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, MaxLen: 2000},
			},
		},
		Schema{
			Name:      Service,
			Title:     "Services",
			Endpoint:  "service",
			Multipart: true,
			Fields: []Field{
				{Name: "image", Label: "Image", Kind: KindImage, Required: true, ListColumn: true},
				{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, Required: true, MaxLen: 5000, ListColumn: true},
			},
		},
		Schema{
			Name:       Slider,
			Title:      "Slider",
			Endpoint:   "home",
			PublicBase: true,
			Multipart:  true,
			Fields: []Field{
				{Name: "image", Label: "Image", Kind: KindImage, Required: true, ListColumn: true},
				{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, MaxLen: 1000, ListColumn: true},
			},
		},
		Schema{
			Name:      About,
			Title:     "About",
			Endpoint:  "about",
			Multipart: true,
			Fields: []Field{
				{Name: "image", Label: "Image", Kind: KindImage, Required: true, ListColumn: true},
				{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, Required: true, MaxLen: 5000},
				{Name: "experience", Label: "Years of Experience", Kind: KindNumber, ListColumn: true},
				{Name: "customer", Label: "Happy Customers", Kind: KindNumber, ListColumn: true},
				{Name: "parts", Label: "Parts Available", Kind: KindNumber, ListColumn: true},
			},
		},
		Schema{
			Name:     Journey,
			Title:    "Journey",
			Endpoint: "journey",
			Fields: []Field{
				{Name: "year", Label: "Year", Kind: KindYear, Required: true, ListColumn: true},
				{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "description", Label: "Description", Kind: KindTextarea, MaxLen: 2000, ListColumn: true},
			},
		},
		Schema{
			Name:     Footer,
			Title:    "Footer",
			Endpoint: "footer",
			ListPath: "get/footer/list",
			Fields: []Field{
				{Name: "companydescription", Label: "Company Description", Kind: KindTextarea, Required: true, MaxLen: 2000, ListColumn: true},
				{Name: "address", Label: "Address", Kind: KindTextarea, Required: true, MaxLen: 500, ListColumn: true},
				{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, ListColumn: true},
				{Name: "email", Label: "Email", Kind: KindEmail, Required: true, ListColumn: true},
			},
		},
		Schema{
			Name:      Inquiry,
			Title:     "Notifications",
			Endpoint:  "inquiry",
			Paginated: true,
			DateRange: true,
			ReadOnly:  true,
			Fields: []Field{
				{Name: "user_name", Label: "Name", Kind: KindText, Required: true, MaxLen: 100, ListColumn: true},
				{Name: "phone", Label: "Phone", Kind: KindTel, Required: true, ListColumn: true},
				{Name: "title", Label: "Subject", Kind: KindText, Required: true, MaxLen: 200, ListColumn: true},
				{Name: "description", Label: "Message", Kind: KindTextarea, Required: true, MaxLen: 5000},
			},
		},
	)
}
