package domain

type Station struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
