package models

// Fallback phone values. A Record's Phone is always a real number or one of these.
const (
	PhoneNotFound    = "N/A"
	PhoneUnavailable = "Non disponibile"
)

// Columns is the header of every tabular export, in this order.
var Columns = []string{"Nome", "Telefono", "Indirizzo"}

type ScrapeQuery struct {
	Query    string
	Location string
}

type Record struct {
	Name    string
	Phone   string
	Address string
}

// Row returns the record's fields in Columns order.
func (r Record) Row() []string {
	return []string{r.Name, r.Phone, r.Address}
}

type ScrapeResult struct {
	Query   ScrapeQuery
	Records []Record
	Error   error
}
