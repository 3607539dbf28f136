package models

type Category struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}
