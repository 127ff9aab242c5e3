package sellix

import "github.com/shopspring/decimal"

// APIResponse represents the Sellix product list response.
type APIResponse struct {
	Status int       `json:"status"`
	Error  *string   `json:"error"`
	Data   *DataBody `json:"data"`
}

type DataBody struct {
	Products []APIProduct `json:"products"`
}

type APIProduct struct {
	Title    string           `json:"title"`
	UniqID   string           `json:"uniqid"`
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency"`
}
