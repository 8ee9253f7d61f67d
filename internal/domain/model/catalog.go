package model

import "time"

// Category groups products in the shop menu.
type Category struct {
	ID   string
	Name string
}

// CategoryFromRecord maps a category/list row.
func CategoryFromRecord(r Record) Category {
	return Category{ID: r.ID(), Name: r.String("category")}
}

// Product is a part listed in the shop.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  string
	Image       string
}

// ProductFromRecord maps a product/list row. Older rows carry "name" instead
// of "productname".
func ProductFromRecord(r Record) Product {
	name := r.String("productname")
	if name == "" {
		name = r.String("name")
	}
	return Product{
		ID:          r.ID(),
		Name:        name,
		Description: r.String("description"),
		CategoryID:  r.String("category_id"),
		Image:       r.Image(),
	}
}

// Service is a workshop service offered by the store.
type Service struct {
	ID          string
	Title       string
	Description string
	Image       string
}

// ServiceFromRecord maps a service/list or service/show row.
func ServiceFromRecord(r Record) Service {
	return Service{
		ID:          r.ID(),
		Title:       r.String("title"),
		Description: r.String("description"),
		Image:       r.Image(),
	}
}

// Slide is one homepage hero banner.
type Slide struct {
	ID          string
	Title       string
	Description string
	Image       string
}

// SlideFromRecord maps a home/list row.
func SlideFromRecord(r Record) Slide {
	return Slide{
		ID:          r.ID(),
		Title:       r.String("title"),
		Description: r.String("description"),
		Image:       r.Image(),
	}
}

// About is the company profile block.
type About struct {
	ID          string
	Title       string
	Description string
	Experience  string
	Customer    string
	Parts       string
	Image       string
}

// AboutFromRecord maps an about/list row.
func AboutFromRecord(r Record) About {
	return About{
		ID:          r.ID(),
		Title:       r.String("title"),
		Description: r.String("description"),
		Experience:  r.String("experience"),
		Customer:    r.String("customer"),
		Parts:       r.String("parts"),
		Image:       r.Image(),
	}
}

// Journey is one milestone on the about page timeline.
type Journey struct {
	ID          string
	Year        string
	Title       string
	Description string
}

// JourneyFromRecord maps a journey/list row.
func JourneyFromRecord(r Record) Journey {
	return Journey{
		ID:          r.ID(),
		Year:        r.String("year"),
		Title:       r.String("title"),
		Description: r.String("description"),
	}
}

// Footer holds the contact block shown on every public page.
type Footer struct {
	ID                 string
	CompanyDescription string
	Address            string
	Phone              string
	Email              string
}

// FooterFromRecord maps a get/footer/list row.
func FooterFromRecord(r Record) Footer {
	return Footer{
		ID:                 r.ID(),
		CompanyDescription: r.String("companydescription"),
		Address:            r.String("address"),
		Phone:              r.String("phone"),
		Email:              r.String("email"),
	}
}

// Inquiry is a customer message submitted from the inquiry or contact form.
type Inquiry struct {
	ID          string
	Title       string
	Description string
	UserName    string
	Email       string
	Phone       string
	ProductID   string
	ProductName string
	CreatedAt   time.Time
}

// InquiryFromRecord maps an inquiry/list row. Unparseable timestamps leave
// CreatedAt zero.
func InquiryFromRecord(r Record) Inquiry {
	in := Inquiry{
		ID:          r.ID(),
		Title:       r.String("title"),
		Description: r.String("description"),
		UserName:    r.String("user_name"),
		Email:       r.String("email"),
		Phone:       r.String("phone"),
		ProductID:   r.String("prod_id"),
		ProductName: r.String("product_name"),
	}
	if raw := r.String("created_at"); raw != "" {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
			if ts, err := time.Parse(layout, raw); err == nil {
				in.CreatedAt = ts
				break
			}
		}
	}
	return in
}

// InquiryRequest is the payload posted to inquiry/sendmail.
type InquiryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserName    string `json:"user_name"`
	Phone       string `json:"phone"`
	ProductID   string `json:"prod_id,omitempty"`
}
