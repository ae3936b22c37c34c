package domain

// Service is an offering shown on the public site (household shifting,
// car transport, warehousing, ...).
type Service struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Summary     string   `json:"summary" yaml:"summary"`
	Description string   `json:"description" yaml:"description"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights"`
	Image       string   `json:"image,omitempty" yaml:"image"`
}

// Branch is a physical office.
type Branch struct {
	City       string `json:"city" yaml:"city"`
	Address    string `json:"address" yaml:"address"`
	Phone      string `json:"phone" yaml:"phone"`
	Email      string `json:"email,omitempty" yaml:"email"`
	MapURL     string `json:"map_url,omitempty" yaml:"map_url"`
	HeadOffice bool   `json:"head_office" yaml:"head_office"`
}

// Testimonial is a customer quote.
type Testimonial struct {
	Name    string `json:"name" yaml:"name"`
	City    string `json:"city,omitempty" yaml:"city"`
	Rating  int    `json:"rating" yaml:"rating"`
	Message string `json:"message" yaml:"message"`
}

// SiteContent is everything the public pages render.
type SiteContent struct {
	Services     []Service     `json:"services" yaml:"services"`
	Branches     []Branch      `json:"branches" yaml:"branches"`
	Testimonials []Testimonial `json:"testimonials" yaml:"testimonials"`
}

// ServiceBySlug returns the service with the given slug.
func (c *SiteContent) ServiceBySlug(slug string) (Service, bool) {
	for _, s := range c.Services {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}
