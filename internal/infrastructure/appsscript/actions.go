package appsscript

import (
	"context"
	"fmt"
	"net/url"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
)

type brandsResponse struct {
	envelope
	Brands []entity.Brand `json:"brands"`
}

type brandProductsResponse struct {
	envelope
	Products []entity.BrandProduct `json:"products"`
}

type customersResponse struct {
	envelope
	Customers []entity.Customer `json:"customers"`
}

type transactionsResponse struct {
	envelope
	Transactions []entity.Transaction `json:"transactions"`
}

type productsResponse struct {
	envelope
	Products []entity.CatalogProduct `json:"products"`
}

type bulkResponse struct {
	envelope
	UpdatedCount int `json:"updatedCount"`
}

// GetBrands lists every brand.
func (c *Client) GetBrands(ctx context.Context) ([]entity.Brand, error) {
	var out brandsResponse
	if err := c.get(ctx, "getBrands", nil, true, "Failed to load brands", &out); err != nil {
		return nil, err
	}
	if out.Brands == nil {
		return nil, &RemoteError{Action: "getBrands", Message: "Failed to load brands"}
	}
	return out.Brands, nil
}

// SaveBrand adds the brand when BrandID is empty, otherwise updates it.
func (c *Client) SaveBrand(ctx context.Context, b entity.Brand) error {
	action := "addBrand"
	if b.BrandID != "" {
		action = "updateBrand"
	}
	fields := url.Values{}
	fields.Set("brandId", b.BrandID)
	fields.Set("brandName", b.BrandName)
	fields.Set("manufacturerId", b.ManufacturerID)
	fields.Set("description", b.Description)
	fields.Set("country", b.Country)
	return c.postForm(ctx, action, fields, "Failed to save brand")
}

// DeleteBrand removes a brand.
func (c *Client) DeleteBrand(ctx context.Context, brandID string) error {
	fields := url.Values{}
	fields.Set("brandId", brandID)
	return c.postForm(ctx, "deleteBrand", fields, "Failed to delete brand")
}

// GetBrandProducts lists the products filed under a brand.
func (c *Client) GetBrandProducts(ctx context.Context, brandID string) ([]entity.BrandProduct, error) {
	params := url.Values{}
	params.Set("brandId", brandID)
	var out brandProductsResponse
	if err := c.get(ctx, "getBrandProducts", params, false, "Failed to load products", &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetCustomers lists every customer.
func (c *Client) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	var out customersResponse
	if err := c.get(ctx, "getCustomers", nil, true, "Failed to load customers", &out); err != nil {
		return nil, err
	}
	if out.Customers == nil {
		return nil, &RemoteError{Action: "getCustomers", Message: "Failed to load customers"}
	}
	return out.Customers, nil
}

// SaveCustomer adds or updates a customer. The customer's own address goes
// out as customerEmail so it does not clash with the account email.
func (c *Client) SaveCustomer(ctx context.Context, cu entity.Customer) error {
	action := "addCustomer"
	if cu.CustomerID != "" {
		action = "updateCustomer"
	}
	fields := url.Values{}
	fields.Set("customerId", cu.CustomerID)
	fields.Set("customerType", cu.CustomerType)
	fields.Set("customerName", cu.CustomerName)
	fields.Set("phoneNumber", cu.PhoneNumber)
	fields.Set("customerEmail", cu.Email)
	fields.Set("address", cu.Address)
	fields.Set("otherInfo", cu.OtherInfo)
	return c.postForm(ctx, action, fields, "Failed to save customer")
}

// DeleteCustomer removes a customer.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) error {
	fields := url.Values{}
	fields.Set("customerId", customerID)
	return c.postForm(ctx, "deleteCustomer", fields, "Failed to delete customer")
}

// GetCustomerTransactions lists a customer's past sales.
func (c *Client) GetCustomerTransactions(ctx context.Context, customerID string) ([]entity.Transaction, error) {
	params := url.Values{}
	params.Set("customerId", customerID)
	var out transactionsResponse
	if err := c.get(ctx, "getCustomerTransactions", params, false, "Failed to load transactions", &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// GetProducts lists the remote product catalog.
func (c *Client) GetProducts(ctx context.Context) ([]entity.CatalogProduct, error) {
	var out productsResponse
	if err := c.get(ctx, "getProducts", nil, true, "Failed to load products", &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		return nil, &RemoteError{Action: "getProducts", Message: "Failed to load products"}
	}
	return out.Products, nil
}

// BulkUpdate sets category or unit type on many products at once.
func (c *Client) BulkUpdate(ctx context.Context, field entity.BulkField, productIDs []string, value string) (int, error) {
	var action string
	payload := map[string]any{"productIds": productIDs}
	switch field {
	case entity.FieldCategory:
		action = "bulkUpdateCategory"
		payload["category"] = value
	case entity.FieldUnitType:
		action = "bulkUpdateUnitType"
		payload["unitType"] = value
	default:
		return 0, fmt.Errorf("%w: %s has no bulk action", entity.ErrUnsupportedField, field)
	}
	payload["action"] = action

	var out bulkResponse
	if err := c.postJSON(ctx, action, payload, "Backend update failed", &out); err != nil {
		return 0, err
	}
	return out.UpdatedCount, nil
}

// UpdateProduct sets one field on one product.
func (c *Client) UpdateProduct(ctx context.Context, productID string, field entity.BulkField, value string) error {
	payload := map[string]any{
		"action":    "updateProduct",
		"email":     c.email,
		"hash":      c.hash,
		"productId": productID,
		"field":     string(field),
		"value":     value,
	}
	var out envelope
	return c.postJSON(ctx, "updateProduct", payload, "Backend update failed", &out)
}
