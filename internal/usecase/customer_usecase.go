package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// CustomerForm is the add/edit customer form as submitted.
type CustomerForm struct {
	CustomerID   string
	CustomerType string
	CustomerName string
	PhoneNumber  string
	Email        string
	Address      string
	OtherInfo    string
}

// CustomerUseCase mijozlar ro'yxati, CRUD va tranzaksiyalar
type CustomerUseCase interface {
	Load(ctx context.Context) ([]entity.Customer, error)
	List() []entity.Customer
	Filter(text string) []entity.Customer
	Find(customerID string) (entity.Customer, bool)
	Save(ctx context.Context, form CustomerForm) error
	Delete(ctx context.Context, customerID string) error
	Transactions(ctx context.Context, customerID string) ([]entity.Transaction, error)
	InvoicePrefill(customerID string) (string, error)
}

type customerUseCase struct {
	repo repository.CustomerRepository

	mu        sync.RWMutex
	customers []entity.Customer
}

// NewCustomerUseCase yangi CustomerUseCase yaratish
func NewCustomerUseCase(repo repository.CustomerRepository) CustomerUseCase {
	return &customerUseCase{repo: repo}
}

func (u *customerUseCase) Load(ctx context.Context) ([]entity.Customer, error) {
	customers, err := u.repo.GetCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	u.mu.Lock()
	u.customers = customers
	u.mu.Unlock()
	logger.Infof("👥 Loaded %d customers", len(customers))
	return u.List(), nil
}

func (u *customerUseCase) List() []entity.Customer {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.customers == nil {
		return nil
	}
	out := make([]entity.Customer, len(u.customers))
	copy(out, u.customers)
	return out
}

// Filter searches name and email case-insensitively, phone as a substring.
func (u *customerUseCase) Filter(text string) []entity.Customer {
	term := strings.ToLower(strings.TrimSpace(text))
	all := u.List()
	if term == "" {
		return all
	}
	out := make([]entity.Customer, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.CustomerName), term) ||
			strings.Contains(c.PhoneNumber, term) ||
			strings.Contains(strings.ToLower(c.Email), term) {
			out = append(out, c)
		}
	}
	return out
}

func (u *customerUseCase) Find(customerID string) (entity.Customer, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, c := range u.customers {
		if c.CustomerID == customerID {
			return c, true
		}
	}
	return entity.Customer{}, false
}

func (u *customerUseCase) Save(ctx context.Context, form CustomerForm) error {
	customer := entity.Customer{
		CustomerID:   strings.TrimSpace(form.CustomerID),
		CustomerType: strings.TrimSpace(form.CustomerType),
		CustomerName: strings.TrimSpace(form.CustomerName),
		PhoneNumber:  strings.TrimSpace(form.PhoneNumber),
		Email:        strings.TrimSpace(form.Email),
		Address:      strings.TrimSpace(form.Address),
		OtherInfo:    strings.TrimSpace(form.OtherInfo),
	}
	if customer.CustomerName == "" {
		return entity.Invalid("customerName", "Customer name is required!")
	}
	switch customer.CustomerType {
	case "":
		customer.CustomerType = entity.CustomerBusiness
	case entity.CustomerBusiness, entity.CustomerIndividual:
	default:
		return entity.Invalid("customerType", "Customer type must be Business or Individual")
	}
	if err := u.repo.SaveCustomer(ctx, customer); err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	if _, err := u.Load(ctx); err != nil {
		logger.Warnf("⚠️ Customer saved but reload failed: %v", err)
	}
	return nil
}

func (u *customerUseCase) Delete(ctx context.Context, customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return fmt.Errorf("customer: %w", entity.ErrNotFound)
	}
	if err := u.repo.DeleteCustomer(ctx, customerID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if _, err := u.Load(ctx); err != nil {
		logger.Warnf("⚠️ Customer deleted but reload failed: %v", err)
	}
	return nil
}

func (u *customerUseCase) Transactions(ctx context.Context, customerID string) ([]entity.Transaction, error) {
	txs, err := u.repo.GetCustomerTransactions(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer transactions: %w", err)
	}
	return txs, nil
}

// InvoicePrefill returns the name a new invoice for the customer starts with.
func (u *customerUseCase) InvoicePrefill(customerID string) (string, error) {
	c, ok := u.Find(customerID)
	if !ok {
		return "", fmt.Errorf("customer %q: %w", customerID, entity.ErrNotFound)
	}
	return c.CustomerName, nil
}
