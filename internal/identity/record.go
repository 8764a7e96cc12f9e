package identity

// Display values for fields that were not found on the page.
const (
	NameNotFound   = "Name Not Found"
	DOBNotFound    = "DOB Not Found"
	GenderNotFound = "Gender Not Found"
)

// Record holds the fields extracted from one matching page. Identifier is
// always set; the other fields are nil when the page did not contain them.
type Record struct {
	ID          string  `json:"id,omitempty"`
	Identifier  string  `json:"identifier"`
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
}

// Match is a record together with the 1-based page it came from.
type Match struct {
	Record Record
	Page   int
}

func (r Record) DisplayName() string        { return orDefault(r.Name, NameNotFound) }
func (r Record) DisplayDateOfBirth() string { return orDefault(r.DateOfBirth, DOBNotFound) }
func (r Record) DisplayGender() string      { return orDefault(r.Gender, GenderNotFound) }

// Row returns the display values in spreadsheet column order:
// name, identifier, date of birth, gender.
func (r Record) Row() []string {
	return []string{r.DisplayName(), r.Identifier, r.DisplayDateOfBirth(), r.DisplayGender()}
}

func orDefault(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
