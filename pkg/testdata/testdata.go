// Package testdata provides the static fixtures tests run against:
// credentials by role, form scenarios, catalog records, and search query
// sets. The built-in defaults suit the demo environments; a YAML file can
// replace them per deployment.
package testdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credentials identify one test account.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Registration is one registration-form scenario.
type Registration struct {
	FirstName       string `yaml:"first_name"`
	LastName        string `yaml:"last_name"`
	Email           string `yaml:"email"`
	Password        string `yaml:"password"`
	ConfirmPassword string `yaml:"confirm_password"`
	Phone           string `yaml:"phone"`
	Country         string `yaml:"country"`
	AgreeTerms      bool   `yaml:"agree_terms"`
}

// Product is one catalog record.
type Product struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	InStock     bool    `yaml:"in_stock"`
}

// Set is one coherent collection of fixtures.
type Set struct {
	Users         map[string]Credentials  `yaml:"users"`
	Registrations map[string]Registration `yaml:"registrations"`
	Products      []Product               `yaml:"products"`
	SearchQueries map[string][]string     `yaml:"search_queries"`
}

// Default returns the built-in fixture set.
func Default() *Set {
	return &Set{
		Users: map[string]Credentials{
			"admin":   {Username: "admin@example.com", Password: "admin123", Role: "Administrator"},
			"manager": {Username: "manager@example.com", Password: "manager123", Role: "Manager"},
			"user":    {Username: "user@example.com", Password: "user123", Role: "Standard User"},
		},
		Registrations: map[string]Registration{
			"valid_user": {
				FirstName: "John", LastName: "Doe", Email: "john.doe@example.com",
				Password: "P@ssw0rd123", ConfirmPassword: "P@ssw0rd123",
				Phone: "1234567890", Country: "United States", AgreeTerms: true,
			},
			"missing_required_fields": {
				LastName: "Doe",
				Password: "P@ssw0rd123", ConfirmPassword: "P@ssw0rd123",
				Phone: "1234567890", Country: "United States", AgreeTerms: true,
			},
			"invalid_email": {
				FirstName: "John", LastName: "Doe", Email: "not-an-email",
				Password: "P@ssw0rd123", ConfirmPassword: "P@ssw0rd123",
				Phone: "1234567890", Country: "United States", AgreeTerms: true,
			},
		},
		Products: []Product{
			{ID: 1, Name: "Laptop", Price: 999.99, Description: "High-performance laptop with 16GB RAM and 512GB SSD", Category: "Electronics", InStock: true},
			{ID: 2, Name: "Smartphone", Price: 699.99, Description: "Latest smartphone with 128GB storage and dual camera", Category: "Electronics", InStock: true},
			{ID: 3, Name: "Headphones", Price: 199.99, Description: "Noise-cancelling wireless headphones", Category: "Accessories", InStock: false},
		},
		SearchQueries: map[string][]string{
			"valid_with_results": {"laptop", "phone", "electronics"},
			"valid_no_results":   {"xylophone", "zzzzzz", "12345xyz"},
			"special_characters": {"laptop$", "***", "><script>"},
		},
	}
}

// Load reads a fixture set from a YAML file. Sections present in the file
// replace the built-in defaults wholesale; absent sections keep them.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var file Set
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	set := Default()
	if file.Users != nil {
		set.Users = file.Users
	}
	if file.Registrations != nil {
		set.Registrations = file.Registrations
	}
	if file.Products != nil {
		set.Products = file.Products
	}
	if file.SearchQueries != nil {
		set.SearchQueries = file.SearchQueries
	}
	return set, nil
}

// Credentials returns the account for a role, falling back to the standard
// user when the role is unknown.
func (s *Set) Credentials(role string) Credentials {
	if creds, ok := s.Users[role]; ok {
		return creds
	}
	return s.Users["user"]
}

// Registration returns the form scenario by name, falling back to the
// valid one.
func (s *Set) Registration(scenario string) Registration {
	if reg, ok := s.Registrations[scenario]; ok {
		return reg
	}
	return s.Registrations["valid_user"]
}

// ProductByID returns the catalog record with the given ID, or false.
func (s *Set) ProductByID(id int) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
