package paginebianche

// Selectors locate the controls and fields of the results page.
type Selectors struct {
	ConsentReject string
	LoadMore      string
	Card          string
	Title         string
	Address       string
	PhoneReveal   string
	Phone         string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ConsentReject: ".ubl-cst__btn--reject",
		LoadMore:      ".click-load-others",
		Card:          ".list-element--free",
		Title:         ".list-element__title",
		Address:       ".list-element__address",
		PhoneReveal:   ".phone-numbers__cloak.btn",
		Phone:         ".tel",
	}
}
