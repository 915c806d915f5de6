package inference

import "strings"

// Rule pairs a name predicate with the category it selects.
type Rule struct {
	// Name identifies the rule in tests and debug output.
	Name string

	// Category is returned when Match succeeds.
	Category Category

	// Match tests the prepared field name.
	Match func(n Name) bool
}

// DefaultRules returns the name rules in priority order. Patterns overlap,
// so more specific rules come before the general ones they would shadow
// ("firstName" before "name", "emailAddress" before "address").
func DefaultRules() []Rule {
	return []Rule{
		{Name: "identifier", Category: CategoryID, Match: matchID},
		{Name: "guid", Category: CategoryGUID, Match: func(n Name) bool {
			return n.HasWord("uuid", "guid")
		}},
		{Name: "email", Category: CategoryEmail, Match: func(n Name) bool {
			return n.Contains("email")
		}},
		{Name: "first_name", Category: CategoryFirstName, Match: func(n Name) bool {
			return n.Contains("firstname", "givenname", "forename")
		}},
		{Name: "last_name", Category: CategoryLastName, Match: func(n Name) bool {
			return n.Contains("lastname", "surname", "familyname")
		}},
		{Name: "username", Category: CategoryUsername, Match: func(n Name) bool {
			return n.Contains("username", "login", "nickname") || n.HasWord("handle")
		}},
		{Name: "company", Category: CategoryCompanyName, Match: func(n Name) bool {
			return n.Contains("company", "organization", "organisation", "employer")
		}},
		{Name: "job_title", Category: CategoryJobTitle, Match: func(n Name) bool {
			return n.Contains("jobtitle", "profession", "occupation") || n.HasWord("job")
		}},
		{Name: "name", Category: CategoryName, Match: func(n Name) bool {
			return strings.HasSuffix(n.Compact, "name")
		}},
		{Name: "phone", Category: CategoryPhone, Match: func(n Name) bool {
			return n.Contains("phone", "mobile") || n.HasWord("cell", "tel", "fax")
		}},
		{Name: "address", Category: CategoryAddress, Match: func(n Name) bool {
			return n.Contains("address") || n.HasWord("street")
		}},
		{Name: "city", Category: CategoryCity, Match: func(n Name) bool {
			return n.HasWord("city", "town")
		}},
		{Name: "state", Category: CategoryState, Match: func(n Name) bool {
			return n.HasWord("state", "province")
		}},
		{Name: "country", Category: CategoryCountry, Match: func(n Name) bool {
			return n.Contains("country")
		}},
		{Name: "postal_code", Category: CategoryZip, Match: func(n Name) bool {
			return n.Contains("zip", "postal", "postcode")
		}},
		{Name: "date", Category: CategoryDate, Match: matchDate},
		{Name: "age", Category: CategoryAge, Match: func(n Name) bool {
			return n.HasWord("age")
		}},
		{Name: "gender", Category: CategoryGender, Match: func(n Name) bool {
			return n.HasWord("gender", "sex")
		}},
		{Name: "url", Category: CategoryURL, Match: func(n Name) bool {
			return n.HasWord("url", "uri", "link", "website", "homepage", "site") ||
				strings.HasSuffix(n.Compact, "url") || n.Contains("website")
		}},
		{Name: "text", Category: CategoryText, Match: func(n Name) bool {
			return n.Contains("description", "summary", "text", "content") ||
				n.HasWord("desc", "note", "notes", "comment", "comments", "message", "bio")
		}},
		{Name: "price", Category: CategoryPrice, Match: func(n Name) bool {
			return n.Contains("price", "cost", "amount") || n.HasWord("fee")
		}},
		{Name: "image", Category: CategoryImage, Match: func(n Name) bool {
			return n.Contains("image", "picture", "avatar", "photo", "thumbnail") || n.HasWord("logo")
		}},
		{Name: "color", Category: CategoryColor, Match: func(n Name) bool {
			return n.Contains("color", "colour")
		}},
		{Name: "boolean", Category: CategoryBoolean, Match: func(n Name) bool {
			return IsBooleanName(n.Raw)
		}},
		{Name: "password", Category: CategoryPassword, Match: func(n Name) bool {
			return n.Contains("password", "passwd", "passphrase") || n.HasWord("pwd")
		}},
		{Name: "credit_card_type", Category: CategoryCreditCardType, Match: func(n Name) bool {
			return n.Contains("cardtype", "cctype", "cardbrand")
		}},
		{Name: "credit_card_number", Category: CategoryCreditCardNumber, Match: func(n Name) bool {
			return n.Contains("creditcard", "cardnumber", "ccnumber")
		}},
		{Name: "quantity", Category: CategoryNumber, Match: func(n Name) bool {
			return IsQuantityName(n.Raw)
		}},
	}
}

// matchID accepts "id", "user_id", "customerID" and similar, but not
// words that merely end in "id" ("paid", "uuid").
func matchID(n Name) bool {
	if n.Lower == "id" {
		return true
	}
	return len(n.Words) > 1 && n.LastWord() == "id"
}

func matchDate(n Name) bool {
	if n.HasWord("time", "timestamp", "datetime", "dob", "birthday") {
		return true
	}
	for _, w := range n.Words {
		if strings.HasSuffix(w, "date") {
			return true
		}
	}
	return len(n.Words) > 1 && n.LastWord() == "at"
}
