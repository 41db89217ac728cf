package entity

const (
	CustomerBusiness   = "Business"
	CustomerIndividual = "Individual"
)

// Customer is a CRM contact row from the remote sheet.
type Customer struct {
	CustomerID   string `json:"customerId"`
	CustomerType string `json:"customerType"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	OtherInfo    string `json:"otherInfo"`
	CreatedDate  string `json:"createdDate"`
}

// IsBusiness reports whether the customer is a company account.
func (c Customer) IsBusiness() bool {
	return c.CustomerType == CustomerBusiness
}

// HasAdvancedInfo is true when any optional contact field is filled in.
func (c Customer) HasAdvancedInfo() bool {
	return c.PhoneNumber != "" || c.Email != "" || c.Address != "" || c.OtherInfo != ""
}

// Transaction is one past sale attributed to a customer.
type Transaction struct {
	Date   string `json:"date"`
	SaleID string `json:"saleId"`
	Items  string `json:"items"`
	Total  Number `json:"total"`
}
