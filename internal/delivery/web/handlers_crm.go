package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/usecase"
)

// ---- brands ----

func (s *Server) listBrands(c *gin.Context) {
	navigate(c, entity.PageBrands, entity.PageParams{})
	query := strings.TrimSpace(c.Query("q"))

	var loadErr string
	if query == "" || len(s.deps.Brands.List()) == 0 {
		if _, err := s.deps.Brands.Load(c.Request.Context()); err != nil {
			loadErr = userMessage(err)
		}
	}
	s.render(c, http.StatusOK, "brands", gin.H{
		"Brands":    s.deps.Brands.Filter(query),
		"Query":     query,
		"LoadError": loadErr,
	})
}

func (s *Server) findBrand(c *gin.Context) (entity.Brand, bool) {
	id := c.Param("id")
	if b, ok := s.deps.Brands.Find(id); ok {
		return b, true
	}
	if _, err := s.deps.Brands.Load(c.Request.Context()); err != nil {
		return entity.Brand{}, false
	}
	return s.deps.Brands.Find(id)
}

func (s *Server) brandDetail(c *gin.Context) {
	brand, ok := s.findBrand(c)
	if !ok {
		redirectWithError(c, "/brands", "Brand not found!", entity.ErrNotFound)
		return
	}
	tab := c.DefaultQuery("tab", "info")
	data := gin.H{"Title": orDefault(brand.BrandName, "Unknown"), "Brand": brand, "Tab": tab}
	if tab == "products" {
		products, err := s.deps.Brands.Products(c.Request.Context(), brand.BrandID)
		if err != nil {
			data["ProductsError"] = userMessage(err)
		}
		data["Products"] = products
	}
	s.render(c, http.StatusOK, "brand_detail", data)
}

func (s *Server) newBrandForm(c *gin.Context) {
	s.render(c, http.StatusOK, "brand_form", gin.H{"Title": "Add Brand", "Form": usecase.BrandForm{}})
}

func (s *Server) editBrandForm(c *gin.Context) {
	brand, ok := s.findBrand(c)
	if !ok {
		redirectWithError(c, "/brands", "Brand not found!", entity.ErrNotFound)
		return
	}
	s.render(c, http.StatusOK, "brand_form", gin.H{
		"Title": "Edit Brand",
		"Form": usecase.BrandForm{
			BrandID:        brand.BrandID,
			BrandName:      brand.BrandName,
			ManufacturerID: brand.ManufacturerID,
			Description:    brand.Description,
			Country:        brand.Country,
		},
	})
}

func (s *Server) saveBrand(c *gin.Context) {
	form := usecase.BrandForm{
		BrandID:        c.PostForm("brandId"),
		BrandName:      c.PostForm("brandName"),
		ManufacturerID: c.PostForm("manufacturerId"),
		Description:    c.PostForm("description"),
		Country:        c.PostForm("country"),
	}
	isEdit := strings.TrimSpace(form.BrandID) != ""
	if err := s.deps.Brands.Save(c.Request.Context(), form); err != nil {
		if errors.Is(err, entity.ErrValidation) {
			s.render(c, http.StatusBadRequest, "brand_form", gin.H{"Title": "Brand", "Form": form, "Error": userMessage(err)})
			return
		}
		redirectWithError(c, "/brands", "Error saving brand", err)
		return
	}
	if isEdit {
		flashSuccess(c, "Brand updated successfully!", "")
	} else {
		flashSuccess(c, "Brand added successfully!", "")
	}
	c.Redirect(http.StatusSeeOther, "/brands")
}

func (s *Server) deleteBrand(c *gin.Context) {
	if err := s.deps.Brands.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/brands", "Error deleting brand", err)
		return
	}
	flashSuccess(c, "Brand deleted successfully!", "")
	c.Redirect(http.StatusSeeOther, "/brands")
}

// ---- customers ----

func (s *Server) listCustomers(c *gin.Context) {
	navigate(c, entity.PageCustomers, entity.PageParams{})
	query := strings.TrimSpace(c.Query("q"))

	var loadErr string
	if query == "" || len(s.deps.Customers.List()) == 0 {
		if _, err := s.deps.Customers.Load(c.Request.Context()); err != nil {
			loadErr = userMessage(err)
		}
	}
	s.render(c, http.StatusOK, "customers", gin.H{
		"Customers": s.deps.Customers.Filter(query),
		"Query":     query,
		"LoadError": loadErr,
	})
}

func (s *Server) findCustomer(c *gin.Context) (entity.Customer, bool) {
	id := c.Param("id")
	if cu, ok := s.deps.Customers.Find(id); ok {
		return cu, true
	}
	if _, err := s.deps.Customers.Load(c.Request.Context()); err != nil {
		return entity.Customer{}, false
	}
	return s.deps.Customers.Find(id)
}

func (s *Server) customerDetail(c *gin.Context) {
	customer, ok := s.findCustomer(c)
	if !ok {
		redirectWithError(c, "/customers", "Customer not found!", entity.ErrNotFound)
		return
	}
	tab := c.DefaultQuery("tab", "info")
	data := gin.H{"Title": customer.CustomerName, "Customer": customer, "Tab": tab}
	if tab == "transactions" {
		txs, err := s.deps.Customers.Transactions(c.Request.Context(), customer.CustomerID)
		if err != nil {
			data["TransactionsError"] = userMessage(err)
		}
		data["Transactions"] = txs
	}
	if tab == "invoices" {
		if name, err := s.deps.Customers.InvoicePrefill(customer.CustomerID); err == nil {
			data["InvoiceCustomer"] = name
		}
	}
	s.render(c, http.StatusOK, "customer_detail", data)
}

func (s *Server) newCustomerForm(c *gin.Context) {
	s.render(c, http.StatusOK, "customer_form", gin.H{
		"Title": "Add Customer",
		"Form":  usecase.CustomerForm{CustomerType: entity.CustomerBusiness},
	})
}

func (s *Server) editCustomerForm(c *gin.Context) {
	cu, ok := s.findCustomer(c)
	if !ok {
		redirectWithError(c, "/customers", "Customer not found!", entity.ErrNotFound)
		return
	}
	s.render(c, http.StatusOK, "customer_form", gin.H{
		"Title":    "Edit Customer",
		"Advanced": cu.HasAdvancedInfo(),
		"Form": usecase.CustomerForm{
			CustomerID:   cu.CustomerID,
			CustomerType: cu.CustomerType,
			CustomerName: cu.CustomerName,
			PhoneNumber:  cu.PhoneNumber,
			Email:        cu.Email,
			Address:      cu.Address,
			OtherInfo:    cu.OtherInfo,
		},
	})
}

func (s *Server) saveCustomer(c *gin.Context) {
	form := usecase.CustomerForm{
		CustomerID:   c.PostForm("customerId"),
		CustomerType: c.PostForm("customerType"),
		CustomerName: c.PostForm("customerName"),
		PhoneNumber:  c.PostForm("phoneNumber"),
		Email:        c.PostForm("email"),
		Address:      c.PostForm("address"),
		OtherInfo:    c.PostForm("otherInfo"),
	}
	isEdit := strings.TrimSpace(form.CustomerID) != ""
	if err := s.deps.Customers.Save(c.Request.Context(), form); err != nil {
		if errors.Is(err, entity.ErrValidation) {
			s.render(c, http.StatusBadRequest, "customer_form", gin.H{"Title": "Customer", "Form": form, "Error": userMessage(err)})
			return
		}
		redirectWithError(c, "/customers", "Error saving customer", err)
		return
	}
	if isEdit {
		flashSuccess(c, "Customer updated successfully!", "")
	} else {
		flashSuccess(c, "Customer added successfully!", "")
	}
	c.Redirect(http.StatusSeeOther, "/customers")
}

func (s *Server) deleteCustomer(c *gin.Context) {
	if err := s.deps.Customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/customers", "Error deleting customer", err)
		return
	}
	flashSuccess(c, "Customer deleted successfully!", "")
	c.Redirect(http.StatusSeeOther, "/customers")
}

// customerInvoice opens the invoices tab prefilled with the customer name.
func (s *Server) customerInvoice(c *gin.Context) {
	id := c.Param("id")
	name, err := s.deps.Customers.InvoicePrefill(id)
	if err != nil {
		redirectWithError(c, "/customers", "Customer not found!", err)
		return
	}
	setFlash(c, "info", "Invoice feature will be integrated soon", "Customer: "+name)
	c.Redirect(http.StatusSeeOther, "/customers/"+url.PathEscape(id)+"?tab=invoices")
}
