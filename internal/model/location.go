package model

type District struct {
	Name     string   `json:"name"`
	Division string   `json:"division"`
	Upazilas []string `json:"upazilas"`
}
