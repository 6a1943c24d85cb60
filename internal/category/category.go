// Package category folds free-form role strings into the closed grouping used
// for leave filtering and reporting. The same fold must run on every write and
// every read path so one role spelled two ways never splits a report.
package category

import "strings"

type Category string

const (
	DeliveryManager  Category = "delivery_manager"
	ProductManager   Category = "product_manager"
	FinancialManager Category = "financial_manager"
	Other            Category = "other"
)

func (c Category) String() string { return string(c) }

// Valid reports whether c is one of the closed category values.
func Valid(c Category) bool {
	switch c {
	case DeliveryManager, ProductManager, FinancialManager, Other:
		return true
	}
	return false
}

// All returns the closed category set in reporting order.
func All() []Category {
	return []Category{DeliveryManager, ProductManager, FinancialManager, Other}
}

// Normalize maps a raw role string onto the closed category set. It is pure
// and total: unknown input, including the empty string, folds to Other.
// Legacy HR role spellings fold into product_manager.
func Normalize(raw string) Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Join(strings.Fields(key), "_")

	switch key {
	case "delivery_manager", "delivery":
		return DeliveryManager
	case "product_manager", "hr_manager", "hrmanager", "hr":
		return ProductManager
	case "financial_manager", "finance_manager", "financial", "finance":
		return FinancialManager
	case "admin":
		return Other
	default:
		return Other
	}
}
