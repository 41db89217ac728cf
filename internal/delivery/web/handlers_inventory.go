package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/infrastructure/backup"
	"github.com/yourusername/tile-inventory/internal/usecase"
)

// pagePaths maps navigation pages to their routes.
var pagePaths = map[entity.Page]string{
	entity.PageDashboard:     "/",
	entity.PageAllProducts:   "/catalog",
	entity.PageProductGroups: "/catalog/groups",
	entity.PageCustomers:     "/customers",
	entity.PageBrands:        "/brands",
}

func pagePath(page entity.Page, params entity.PageParams) string {
	if page == entity.PageGroupDetail {
		if params.GroupID == "" {
			return "/catalog/groups"
		}
		return "/catalog/groups/" + url.PathEscape(params.GroupID)
	}
	if p, ok := pagePaths[page]; ok {
		return p
	}
	return "/"
}

// safeReturn accepts only local absolute paths.
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return fallback
	}
	return raw
}

// ---- dashboard and navigation ----

func (s *Server) dashboard(c *gin.Context) {
	navigate(c, entity.PageDashboard, entity.PageParams{})
	ctx := c.Request.Context()

	summary, err := s.deps.Sales.Summary(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	products, err := s.deps.Products.Search(ctx, query)
	if err != nil {
		s.fail(c, err)
		return
	}
	recent, err := s.deps.Sales.Recent(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "dashboard", gin.H{
		"Summary":  summary,
		"Products": products,
		"Sales":    recent,
		"Query":    query,
	})
}

func (s *Server) back(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	page := sess.Nav.Back()
	c.Redirect(http.StatusSeeOther, pagePath(page, sess.Nav.Params()))
}

// ---- local products ----

func (s *Server) listProducts(c *gin.Context) {
	q := c.Query("q")
	target := "/"
	if q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) newProductForm(c *gin.Context) {
	s.render(c, http.StatusOK, "product_form", gin.H{
		"Title": "Add Product",
		"Form": usecase.ProductForm{
			PiecesPerBox: strconv.Itoa(constants.DefaultPiecesPerBox),
			MinStock:     strconv.Itoa(constants.DefaultMinStock),
		},
	})
}

func (s *Server) editProductForm(c *gin.Context) {
	p, err := s.deps.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/", "❌ Product not found!", err)
		return
	}
	form := usecase.ProductForm{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Brand:        p.Brand,
		Size:         p.Size,
		UnitType:     p.UnitType,
		PiecesPerBox: strconv.Itoa(p.PiecesPerBox),
		Price:        strconv.FormatFloat(p.Price, 'f', -1, 64),
		Stock:        strconv.Itoa(p.Stock),
		MinStock:     strconv.Itoa(p.MinStock),
		ImageURL:     p.ImageURL,
	}
	if p.SftPerBox > 0 {
		form.SftPerBox = strconv.FormatFloat(p.SftPerBox, 'f', -1, 64)
	}
	s.render(c, http.StatusOK, "product_form", gin.H{"Title": "Edit Product", "Form": form})
}

func (s *Server) saveProduct(c *gin.Context) {
	form := usecase.ProductForm{
		ID:           c.PostForm("id"),
		Name:         c.PostForm("productName"),
		Category:     c.PostForm("category"),
		Brand:        c.PostForm("brand"),
		Size:         c.PostForm("size"),
		UnitType:     c.PostForm("unitType"),
		PiecesPerBox: c.PostForm("piecesPerBox"),
		SftPerBox:    c.PostForm("sftPerBox"),
		Price:        c.PostForm("price"),
		Stock:        c.PostForm("stock"),
		MinStock:     c.PostForm("minStock"),
		ImageURL:     c.PostForm("imageUrl"),
	}
	if _, err := s.deps.Products.Save(c.Request.Context(), form); err != nil {
		if errors.Is(err, entity.ErrValidation) {
			s.render(c, http.StatusBadRequest, "product_form", gin.H{"Title": "Product", "Form": form, "Error": "❌ " + userMessage(err)})
			return
		}
		redirectWithError(c, "/", "❌ Product not saved", err)
		return
	}
	flashSuccess(c, "✅ Product saved successfully!", "")
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.deps.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/", "❌ Product not deleted", err)
		return
	}
	flashSuccess(c, "✅ Product deleted successfully!", "")
	c.Redirect(http.StatusSeeOther, "/")
}

// ---- remote catalog and bulk edit ----

func (s *Server) ensureCatalog(c *gin.Context) string {
	if len(s.deps.Catalog.List()) > 0 {
		return ""
	}
	if _, err := s.deps.Catalog.Refresh(c.Request.Context()); err != nil {
		return userMessage(err)
	}
	return ""
}

func (s *Server) catalogPage(c *gin.Context) {
	navigate(c, entity.PageAllProducts, entity.PageParams{})
	loadErr := s.ensureCatalog(c)
	s.render(c, http.StatusOK, "catalog", gin.H{
		"Products":   s.deps.Catalog.List(),
		"Fields":     entity.BulkFields,
		"LoadError":  loadErr,
		"ReturnPath": "/catalog",
	})
}

func (s *Server) refreshCatalog(c *gin.Context) {
	products, err := s.deps.Catalog.Refresh(c.Request.Context())
	if err != nil {
		redirectWithError(c, "/catalog", "❌ Could not refresh products", err)
		return
	}
	flashSuccess(c, "✅ Products refreshed", fmt.Sprintf("%d products loaded", len(products)))
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/catalog"))
}

func (s *Server) groupsPage(c *gin.Context) {
	navigate(c, entity.PageProductGroups, entity.PageParams{})
	loadErr := s.ensureCatalog(c)
	s.render(c, http.StatusOK, "groups", gin.H{
		"Groups":    s.deps.Catalog.Groups(),
		"LoadError": loadErr,
	})
}

func (s *Server) groupDetail(c *gin.Context) {
	groupID := c.Param("id")
	loadErr := s.ensureCatalog(c)
	var name string
	for _, g := range s.deps.Catalog.Groups() {
		if g.ID == groupID {
			name = g.Name
			break
		}
	}
	navigate(c, entity.PageGroupDetail, entity.PageParams{GroupID: groupID, GroupName: name})
	s.render(c, http.StatusOK, "catalog", gin.H{
		"Products":   s.deps.Catalog.GroupProducts(groupID),
		"Fields":     entity.BulkFields,
		"LoadError":  loadErr,
		"ReturnPath": "/catalog/groups/" + url.PathEscape(groupID),
	})
}

func (s *Server) bulkBegin(c *gin.Context) {
	field, err := entity.ParseBulkField(c.PostForm("field"))
	if err != nil {
		redirectWithError(c, "/catalog", "❌ Unknown field", err)
		return
	}
	currentSession(c).withBulk(func(st *entity.BulkEditState) { st.Begin(field) })
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/catalog"))
}

func (s *Server) bulkChoose(c *gin.Context) {
	ret := safeReturn(c.PostForm("return"), "/catalog")
	field, err := entity.ParseBulkField(c.PostForm("field"))
	if err != nil {
		redirectWithError(c, ret, "❌ Unknown field", err)
		return
	}
	value, err := entity.NormalizeBulkValue(field, c.PostForm("value"))
	if err != nil {
		redirectWithError(c, ret, "❌ Invalid value", err)
		return
	}
	currentSession(c).withBulk(func(st *entity.BulkEditState) { st.Choose(field, value) })
	flashSuccess(c, fmt.Sprintf("✅ Bulk edit mode: Update %s to %q", field.Label(), value), "Click on products to select them")
	c.Redirect(http.StatusSeeOther, ret)
}

func (s *Server) bulkToggle(c *gin.Context) {
	currentSession(c).withBulk(func(st *entity.BulkEditState) { st.Toggle(c.Param("id")) })
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/catalog"))
}

func (s *Server) bulkApply(c *gin.Context) {
	ret := safeReturn(c.PostForm("return"), "/catalog")
	var (
		res entity.BulkResult
		err error
	)
	currentSession(c).withBulk(func(st *entity.BulkEditState) {
		res, err = s.deps.BulkEdit.Apply(c.Request.Context(), st)
	})

	switch {
	case errors.Is(err, entity.ErrNoSelection):
		flashWarning(c, "⚠️ Please select at least one product", "")
	case errors.Is(err, entity.ErrBulkInactive):
		flashWarning(c, "⚠️ Bulk edit mode is not active", "Choose a field and value first")
	case err != nil:
		flashError(c, "❌ Error updating products", userMessage(err))
	case res.Partial():
		flashWarning(c, "⚠️ Partially updated",
			fmt.Sprintf("Updated %d product(s); %d failed and are still selected", res.Updated, len(res.Failed)))
	default:
		flashSuccess(c, "✅ Success!",
			fmt.Sprintf("Updated %d product(s) to %s %q", res.Updated, strings.ToLower(res.Field.Label()), res.Value))
	}
	c.Redirect(http.StatusSeeOther, ret)
}

func (s *Server) bulkCancel(c *gin.Context) {
	currentSession(c).withBulk(func(st *entity.BulkEditState) { st.Cancel() })
	setFlash(c, "info", "Bulk edit cancelled", "")
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return"), "/catalog"))
}

// ---- sales ----

func (s *Server) salesPage(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := s.deps.Sales.SaleableProducts(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	data := gin.H{"Title": "Record Sale", "Products": products}

	if pid := c.Query("product"); pid != "" {
		qty, _ := strconv.Atoi(c.Query("quantity"))
		data["ProductID"] = pid
		data["Quantity"] = qty
		if qty > 0 {
			q, err := s.deps.Sales.Quote(ctx, pid, qty)
			if err != nil {
				data["QuoteError"] = "❌ " + userMessage(err)
			} else {
				data["Quote"] = q
			}
		}
	}
	s.render(c, http.StatusOK, "sales", data)
}

// saleQuote is the JSON price preview used by the sale form.
func (s *Server) saleQuote(c *gin.Context) {
	qty, _ := strconv.Atoi(c.Query("quantity"))
	q, err := s.deps.Sales.Quote(c.Request.Context(), c.Query("product"), qty)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, entity.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": userMessage(err), "stock": q.Product.Stock})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     q.Total,
		"unitPrice": q.UnitPrice,
		"unitType":  q.Product.UnitType,
		"label":     fmt.Sprintf("₹%s/%s", strconv.FormatFloat(q.UnitPrice, 'f', -1, 64), q.Product.UnitType),
	})
}

func (s *Server) recordSale(c *gin.Context) {
	qty, _ := strconv.Atoi(c.PostForm("quantity"))
	sale, err := s.deps.Sales.Record(c.Request.Context(), c.PostForm("product"), qty)
	if err != nil {
		redirectWithError(c, "/sales", "❌ Sale not recorded", err)
		return
	}
	flashSuccess(c, "✅ Sale recorded successfully!", fmt.Sprintf("Total: ₹%.2f", sale.TotalAmount))
	c.Redirect(http.StatusSeeOther, "/")
}

// ---- backup ----

func (s *Server) exportBackup(c *gin.Context) {
	format, err := backup.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		redirectWithError(c, "/", "❌ Backup failed", err)
		return
	}
	file, err := s.deps.Backup.Export(c.Request.Context(), format)
	if err != nil {
		redirectWithError(c, "/", "❌ Backup failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (s *Server) importBackup(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxBackupUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		redirectWithError(c, "/", "❌ Error: Invalid backup file!", errors.New("no file uploaded"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		redirectWithError(c, "/", "❌ Error: Invalid backup file!", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		redirectWithError(c, "/", "❌ Error: Invalid backup file!", err)
		return
	}
	stats, err := s.deps.Backup.Import(c.Request.Context(), data)
	if err != nil {
		redirectWithError(c, "/", "❌ Error: Invalid backup file!", err)
		return
	}
	flashSuccess(c, "✅ Data restored successfully!",
		fmt.Sprintf("%d products, %d sales", stats.Products, stats.Sales))
	c.Redirect(http.StatusSeeOther, "/")
}
