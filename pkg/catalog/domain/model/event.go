package model

type CatalogRefreshed struct {
	Products int `json:"products"`
}

func (e CatalogRefreshed) Type() string { return "CatalogRefreshed" }

type CatalogInvalidated struct{}

func (e CatalogInvalidated) Type() string { return "CatalogInvalidated" }
