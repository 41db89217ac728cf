package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/usecase"
)

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.browser().get("/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAnonymousRequestsAreRejected(t *testing.T) {
	f := newFixture(t)
	b := f.browser()

	rec := b.get("/catalog")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = b.post("/catalog/bulk/apply", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	rec := f.browser().post("/login", url.Values{"password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password")
}

func TestLoginThenDashboardAndLogout(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	require.Contains(t, b.cookies, constants.SessionCookieName)

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total Products")
	assert.Contains(t, rec.Body.String(), "No sales recorded yet")

	rec = b.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, b.cookies, constants.SessionCookieName)
	assert.Equal(t, http.StatusSeeOther, b.get("/").Code)
}

func TestLogoutRevokesSessionToken(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	stolen := *b.cookies[constants.SessionCookieName]

	require.Equal(t, http.StatusSeeOther, b.post("/logout", nil).Code)

	b.cookies[constants.SessionCookieName] = &stolen
	rec := b.get("/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	b.cookies[constants.SessionCookieName] = &stolen
	assert.Equal(t, http.StatusUnauthorized, b.post("/catalog/bulk/cancel", nil).Code)
}

func TestBrandPages(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()

	rec := b.get("/brands")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Kajaria")

	rec = b.get("/brands?q=KAJ")
	assert.Contains(t, rec.Body.String(), "Kajaria")

	rec = b.get("/brands/b1?tab=products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Onyx 60x60")
	assert.Contains(t, rec.Body.String(), "bg-warning")

	rec = b.post("/brands", url.Values{"brandName": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brand name is required!")

	rec = b.post("/brands", url.Values{"brandName": {"Somany"}, "country": {"India"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = b.get("/brands")
	assert.Contains(t, rec.Body.String(), "Brand added successfully!")
	assert.Contains(t, rec.Body.String(), "Somany")

	rec = b.get("/brands/missing")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestCustomerInvoiceRedirectsToInvoicesTab(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	require.Equal(t, http.StatusOK, b.get("/customers").Code)

	rec := b.get("/customers/c1/invoice")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customers/c1?tab=invoices", rec.Header().Get("Location"))

	rec = b.get("/customers/c1?tab=invoices")
	body := rec.Body.String()
	assert.Contains(t, body, "Invoice feature will be integrated soon")
	assert.Contains(t, body, "Invoice tracking will be available soon")

	rec = b.get("/customers/c1")
	assert.Contains(t, rec.Body.String(), "Not provided")
}

func TestBulkEditFlow(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	require.Equal(t, http.StatusOK, b.get("/catalog").Code)

	ret := url.Values{"return": {"/catalog"}}
	b.post("/catalog/bulk/begin", url.Values{"return": {"/catalog"}, "field": {"category"}})
	rec := b.get("/catalog")
	assert.Contains(t, rec.Body.String(), "Start selecting")

	rec = b.post("/catalog/bulk/apply", ret)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, b.get("/catalog").Body.String(), "Bulk edit mode is not active")

	b.post("/catalog/bulk/choose", url.Values{"return": {"/catalog"}, "field": {"category"}, "value": {"Outdoor"}})
	rec = b.get("/catalog")
	assert.Contains(t, rec.Body.String(), "Click on products to select them")
	assert.Contains(t, rec.Body.String(), "Apply")

	rec = b.post("/catalog/bulk/apply", ret)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, b.get("/catalog").Body.String(), "Please select at least one product")

	b.post("/catalog/bulk/toggle/p1", ret)
	rec = b.get("/catalog")
	assert.Contains(t, rec.Body.String(), "✓ Selected")

	rec = b.post("/catalog/bulk/apply", ret)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/catalog", rec.Header().Get("Location"))
	assert.Equal(t, []string{"p1"}, f.remote.bulkIDs)
	assert.Equal(t, "Outdoor", f.remote.bulkValue)

	rec = b.get("/catalog")
	assert.Contains(t, rec.Body.String(), "Success!")
	assert.NotContains(t, rec.Body.String(), "✓ Selected")

	p, ok := f.deps.Catalog.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Outdoor", p.Category)
}

func TestBulkReturnPathRejectsExternalURLs(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	rec := b.post("/catalog/bulk/cancel", url.Values{"return": {"//evil.example"}})
	assert.Equal(t, "/catalog", rec.Header().Get("Location"))
}

func TestRecordSaleAndQuote(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	p, err := f.deps.Products.Save(context.Background(), usecase.ProductForm{
		Name: "Onyx", Category: "Floor Tiles", UnitType: "box", Price: "450", Stock: "10",
	})
	require.NoError(t, err)

	rec := b.get("/sales/quote?product=" + p.ID + "&quantity=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var quote map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, float64(900), quote["total"])

	rec = b.get("/sales/quote?product=" + p.ID + "&quantity=11")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.get("/sales?product=" + p.ID + "&quantity=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "₹900.00")

	rec = b.post("/sales", url.Values{"product": {p.ID}, "quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := b.get("/").Body.String()
	assert.Contains(t, body, "Sale recorded successfully!")
	assert.Contains(t, body, "8 box")

	got, err := f.deps.Products.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
}

func TestExportBackupHeaders(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()

	rec := b.get("/backup/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventory-backup-")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = b.get("/backup/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = b.get("/backup/export?format=csv")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestImportBackup(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()

	upload := func(content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "backup.json")
		require.NoError(t, err)
		_, _ = part.Write([]byte(content))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/backup/import", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		for _, c := range b.cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		f.server.Handler().ServeHTTP(rec, req)
		for _, c := range rec.Result().Cookies() {
			b.cookies[c.Name] = c
		}
		return rec
	}

	rec := upload("not json")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, b.get("/").Body.String(), "Invalid backup file!")

	rec = upload(`{"products":[{"id":"x1","name":"Restored","category":"Floor","price":10,"stock":4,"minStock":5}],"sales":[]}`)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	body := b.get("/").Body.String()
	assert.Contains(t, body, "Data restored successfully!")
	assert.True(t, strings.Contains(body, "Restored"))
}

func TestBackNavigatesToPreviousPage(t *testing.T) {
	f := newFixture(t)
	b := f.browser().login()
	b.get("/")
	b.get("/customers")
	b.get("/brands")

	rec := b.get("/back")
	assert.Equal(t, "/customers", rec.Header().Get("Location"))
	rec = b.get("/back")
	assert.Equal(t, "/brands", rec.Header().Get("Location"), "back pushes the page it leaves")
}
