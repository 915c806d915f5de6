package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/curlgen/internal/inference"
)

// ISO8601 is the timestamp layout of generated dates.
const ISO8601 = "2006-01-02T15:04:05.000Z"

// Generator turns categories and field configurations into values.
// It never fails: unparseable static values fall back to their raw text
// and unknown categories produce a random word.
//
// Thread Safety: Safe for concurrent use if its Source is.
type Generator struct {
	src Source
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for dates relative to now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a generator drawing randomness from src.
func New(src Source, opts ...Option) *Generator {
	g := &Generator{src: src, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Source returns the generator's randomness source.
func (g *Generator) Source() Source {
	return g.src
}

// Generate returns one value for a field.
//
// A static config with a value yields that value, coerced by Coerce.
// Otherwise the config's category (or cat when the config asks for
// inference) selects a random value. A field named validateEmail always
// yields a random boolean.
func (g *Generator) Generate(cat inference.Category, cfg *FieldConfig) any {
	if cfg != nil && cfg.Static && cfg.Value != nil {
		return Coerce(cat, cfg)
	}

	name := cfg.name()
	if name == "validateEmail" {
		return g.src.Bool()
	}
	return g.Random(cfg.category(cat), name)
}

// Random returns a random value of the given category. name only steers
// array and object shapes.
func (g *Generator) Random(cat inference.Category, name string) any {
	switch cat {
	case inference.CategoryID:
		return g.id()
	case inference.CategoryGUID:
		return g.src.UUID()

	case inference.CategoryName:
		return g.src.Fake("name")
	case inference.CategoryFirstName:
		return g.src.Fake("firstName")
	case inference.CategoryLastName:
		return g.src.Fake("lastName")
	case inference.CategoryEmail:
		return g.src.Fake("email")
	case inference.CategoryPhone:
		return g.src.Fake("phone")

	case inference.CategoryAddress:
		return g.src.Fake("address")
	case inference.CategoryCity:
		return g.src.Fake("city")
	case inference.CategoryState:
		return g.src.Fake("state")
	case inference.CategoryCountry:
		return g.src.Fake("country")
	case inference.CategoryZip:
		return g.src.Fake("zip")

	case inference.CategoryDate:
		return g.src.Date().UTC().Format(ISO8601)
	case inference.CategoryAge:
		return g.src.Int(18, 90)
	case inference.CategoryGender:
		return g.src.Fake("gender")

	case inference.CategoryURL:
		return g.src.Fake("url")
	case inference.CategoryText:
		return g.src.Fake("paragraph")
	case inference.CategoryImage:
		return fmt.Sprintf("https://picsum.photos/id/%d/200/200", g.src.Int(1, 1000))
	case inference.CategoryColor:
		return g.src.Fake("color")

	case inference.CategoryPrice:
		return twoDecimals(g.src.Float(1, 1000))
	case inference.CategoryCompanyName:
		return g.src.Fake("company")
	case inference.CategoryJobTitle:
		return g.src.Fake("jobTitle")

	case inference.CategoryUsername:
		return g.src.Fake("username")
	case inference.CategoryPassword:
		return g.src.Chars(passwordLength, PasswordChars)
	case inference.CategoryCreditCardNumber:
		return g.src.Fake("creditCard")
	case inference.CategoryCreditCardType:
		return g.src.Fake("creditCardType")

	case inference.CategoryBoolean:
		return g.src.Bool()
	case inference.CategoryNumber:
		return twoDecimals(g.src.Float(0, 1000))
	case inference.CategoryString:
		return g.src.Chars(10, Alphanumeric)
	case inference.CategoryArray:
		return g.randomArray(name)
	case inference.CategoryObject:
		return g.randomObject(name)
	}
	return g.src.Fake("word")
}

// id returns an identifier in [1000, 100000).
func (g *Generator) id() int {
	return g.src.Int(1000, 99999)
}

// twoDecimals truncates f to two decimal places, keeping it below the
// upper bound of its range.
func twoDecimals(f float64) float64 {
	return decimal.NewFromFloat(f).Truncate(2).InexactFloat64()
}
