package constants

type Category string

const (
	CategoryWebDevelopment    Category = "Web Development"
	CategoryMobileDevelopment Category = "Mobile Development"
	CategoryDataScience       Category = "Data Science"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWebDevelopment, CategoryMobileDevelopment, CategoryDataScience:
		return true
	default:
		return false
	}
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyAUD Currency = "AUD"
	CurrencySGD Currency = "SGD"
	CurrencyINR Currency = "INR"
)

// DefaultCurrency applies to offers that do not name one.
const DefaultCurrency = CurrencyUSD

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyAUD, CurrencySGD, CurrencyINR:
		return true
	default:
		return false
	}
}

// FeedbackAction records the requester's decision on a completion submission.
type FeedbackAction string

const (
	FeedbackAccepted FeedbackAction = "accepted"
	FeedbackRejected FeedbackAction = "rejected"
)
