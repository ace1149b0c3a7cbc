package models

// Template is a savings plan flagged as a template together with the rows
// embedded alongside it when it is read from the marketplace.
type Template struct {
	SavingsPlan
	CreatorName string            `json:"creator_name"`
	Items       []SavingsPlanItem `json:"items,omitempty"`
	Ratings     []TemplateRating  `json:"ratings,omitempty"`
}
