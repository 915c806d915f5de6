// Package inference classifies request body fields into semantic categories
// from their names and JSON types.
package inference

import "strings"

// Category is a semantic label used to pick a value generator.
type Category string

// Semantic categories. The string values double as the names accepted in
// configuration files.
const (
	CategoryAuto             Category = "auto"
	CategoryID               Category = "id"
	CategoryGUID             Category = "guid"
	CategoryEmail            Category = "email"
	CategoryName             Category = "name"
	CategoryFirstName        Category = "firstName"
	CategoryLastName         Category = "lastName"
	CategoryPhone            Category = "phone"
	CategoryAddress          Category = "address"
	CategoryCity             Category = "city"
	CategoryState            Category = "state"
	CategoryCountry          Category = "country"
	CategoryZip              Category = "zip"
	CategoryDate             Category = "date"
	CategoryAge              Category = "age"
	CategoryGender           Category = "gender"
	CategoryURL              Category = "url"
	CategoryText             Category = "text"
	CategoryPrice            Category = "price"
	CategoryImage            Category = "image"
	CategoryColor            Category = "color"
	CategoryBoolean          Category = "boolean"
	CategoryCompanyName      Category = "companyName"
	CategoryJobTitle         Category = "jobTitle"
	CategoryUsername         Category = "username"
	CategoryPassword         Category = "password"
	CategoryCreditCardNumber Category = "creditCardNumber"
	CategoryCreditCardType   Category = "creditCardType"
	CategoryNumber           Category = "number"
	CategoryString           Category = "string"
	CategoryArray            Category = "array"
	CategoryObject           Category = "object"
)

var knownCategories = map[Category]bool{
	CategoryAuto: true, CategoryID: true, CategoryGUID: true, CategoryEmail: true,
	CategoryName: true, CategoryFirstName: true, CategoryLastName: true,
	CategoryPhone: true, CategoryAddress: true, CategoryCity: true,
	CategoryState: true, CategoryCountry: true, CategoryZip: true,
	CategoryDate: true, CategoryAge: true, CategoryGender: true, CategoryURL: true,
	CategoryText: true, CategoryPrice: true, CategoryImage: true, CategoryColor: true,
	CategoryBoolean: true, CategoryCompanyName: true, CategoryJobTitle: true,
	CategoryUsername: true, CategoryPassword: true, CategoryCreditCardNumber: true,
	CategoryCreditCardType: true, CategoryNumber: true, CategoryString: true,
	CategoryArray: true, CategoryObject: true,
}

// IsKnown reports whether c is part of the category vocabulary.
// "default" and the empty string are accepted as spellings of auto.
func (c Category) IsKnown() bool {
	return c.IsAuto() || knownCategories[c]
}

// IsAuto reports whether c asks for name-based inference.
func (c Category) IsAuto() bool {
	return c == "" || c == CategoryAuto || strings.EqualFold(string(c), "default")
}

// IsNumeric reports whether values of this category are JSON numbers.
func (c Category) IsNumeric() bool {
	switch c {
	case CategoryNumber, CategoryPrice, CategoryAge, CategoryID:
		return true
	}
	return false
}

// KnownCategories lists the vocabulary, auto first.
func KnownCategories() []Category {
	return []Category{
		CategoryAuto, CategoryID, CategoryGUID, CategoryEmail, CategoryName,
		CategoryFirstName, CategoryLastName, CategoryPhone, CategoryAddress,
		CategoryCity, CategoryState, CategoryCountry, CategoryZip, CategoryDate,
		CategoryAge, CategoryGender, CategoryURL, CategoryText, CategoryPrice,
		CategoryImage, CategoryColor, CategoryBoolean, CategoryCompanyName,
		CategoryJobTitle, CategoryUsername, CategoryPassword,
		CategoryCreditCardNumber, CategoryCreditCardType, CategoryNumber,
		CategoryString, CategoryArray, CategoryObject,
	}
}
