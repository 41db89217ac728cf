package entity

// Brand is a manufacturer brand row from the remote sheet.
type Brand struct {
	BrandID        string `json:"brandId"`
	BrandName      string `json:"brandName"`
	ManufacturerID string `json:"manufacturerId"`
	Description    string `json:"description"`
	Country        string `json:"country"`
	ProductCount   Number `json:"productCount"`
	CreatedDate    string `json:"createdDate"`
}

// BrandProduct is a product listed on a brand's detail tab.
type BrandProduct struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    Number `json:"stock"`
	Price    Number `json:"price"`
}
