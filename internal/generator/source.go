// Package generator produces field values for generated entries.
package generator

import (
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Character pools used for generated strings.
const (
	Alphanumeric   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	UpperLetters   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowerAlnum     = "abcdefghijklmnopqrstuvwxyz0123456789"
	PasswordChars  = Alphanumeric + "!@#$%^&*"
	passwordLength = 12
)

// Source supplies the randomness behind generated values. Implementations
// must be safe for concurrent use.
type Source interface {
	// Int returns an integer in [min, max].
	Int(min, max int) int

	// Float returns a float in [min, max).
	Float(min, max float64) float64

	// Bool returns a random boolean.
	Bool() bool

	// Pick returns one of options, or "" when there are none.
	Pick(options ...string) string

	// UUID returns a random UUID string.
	UUID() string

	// Chars returns n characters drawn from charset.
	Chars(n int, charset string) string

	// Date returns a random point in time.
	Date() time.Time

	// Fake returns a realistic value of the named kind ("email", "city",
	// "paragraph", ...). Unknown kinds yield a random word.
	Fake(kind string) string
}

// FakerSource is a Source backed by gofakeit.
//
// Thread Safety: Safe for concurrent use.
type FakerSource struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewFakerSource creates a source. The same non-zero seed always yields the
// same sequence of values; seed 0 picks a random seed.
func NewFakerSource(seed uint64) *FakerSource {
	return &FakerSource{faker: gofakeit.New(seed)}
}

// Int implements Source.
func (s *FakerSource) Int(min, max int) int {
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(min, max)
}

// Float implements Source.
func (s *FakerSource) Float(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Float64Range(min, max)
}

// Bool implements Source.
func (s *FakerSource) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Bool()
}

// Pick implements Source.
func (s *FakerSource) Pick(options ...string) string {
	if len(options) == 0 {
		return ""
	}
	return options[s.Int(0, len(options)-1)]
}

// UUID implements Source.
func (s *FakerSource) UUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.UUID()
}

// Chars implements Source.
func (s *FakerSource) Chars(n int, charset string) string {
	if n <= 0 || charset == "" {
		return ""
	}
	pool := []rune(charset)

	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteRune(pool[s.faker.Number(0, len(pool)-1)])
	}
	return b.String()
}

// Date implements Source.
func (s *FakerSource) Date() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Date()
}

// Fake implements Source.
func (s *FakerSource) Fake(kind string) string {
	fn, ok := fakerFunctions[kind]
	if !ok {
		fn = fakerFunctions["word"]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.faker)
}

// fakerFunctions maps value kinds to gofakeit generators.
var fakerFunctions = map[string]func(*gofakeit.Faker) string{
	// Person
	"name":      func(f *gofakeit.Faker) string { return f.Name() },
	"firstName": func(f *gofakeit.Faker) string { return f.FirstName() },
	"lastName":  func(f *gofakeit.Faker) string { return f.LastName() },
	"gender":    func(f *gofakeit.Faker) string { return f.Gender() },

	// Contact
	"email": func(f *gofakeit.Faker) string { return f.Email() },
	"phone": func(f *gofakeit.Faker) string { return f.Phone() },

	// Address
	"address": func(f *gofakeit.Faker) string { return f.Address().Address },
	"street":  func(f *gofakeit.Faker) string { return f.Street() },
	"city":    func(f *gofakeit.Faker) string { return f.City() },
	"state":   func(f *gofakeit.Faker) string { return f.State() },
	"country": func(f *gofakeit.Faker) string { return f.Country() },
	"zip":     func(f *gofakeit.Faker) string { return f.Zip() },

	// Company
	"company":  func(f *gofakeit.Faker) string { return f.Company() },
	"jobTitle": func(f *gofakeit.Faker) string { return f.JobTitle() },

	// Internet
	"url":      func(f *gofakeit.Faker) string { return f.URL() },
	"username": func(f *gofakeit.Faker) string { return f.Username() },

	// Payment
	"creditCard":     func(f *gofakeit.Faker) string { return f.CreditCardNumber(nil) },
	"creditCardType": func(f *gofakeit.Faker) string { return f.CreditCardType() },

	// Text
	"word":      func(f *gofakeit.Faker) string { return f.Word() },
	"sentence":  func(f *gofakeit.Faker) string { return f.Sentence(3) },
	"paragraph": func(f *gofakeit.Faker) string { return f.Paragraph(1, 4, 10, " ") },

	// Color
	"color": func(f *gofakeit.Faker) string { return f.Color() },
}

// SupportedFakeKinds returns the kinds Fake understands.
func SupportedFakeKinds() []string {
	kinds := make([]string, 0, len(fakerFunctions))
	for k := range fakerFunctions {
		kinds = append(kinds, k)
	}
	return kinds
}
