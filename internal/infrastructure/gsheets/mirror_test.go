package gsheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"google.golang.org/api/option"
)

func TestBuildRows(t *testing.T) {
	rows := BuildRows([]entity.CatalogProduct{
		{ID: "p1", Name: "Beige Matt", Category: "Floor", UnitType: "Box", Stock: 12, SellingPrice: 450.5},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, []any{"p1", "Beige Matt", "Floor", "Box", "", "", 12.0, 450.5}, rows[1])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Products", sheetName("Products!A1"))
	assert.Equal(t, "Stock", sheetName("Stock"))
}

func TestNewMirrorDisabledWithoutSpreadsheet(t *testing.T) {
	m, err := NewMirror(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestPublishClearsThenUpdates(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	var written map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		if strings.HasSuffix(r.URL.Path, ":clear") {
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","clearedRange":"Products!A1:Z100"}`)
			return
		}
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&written))
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","updatedRows":2}`)
	}))
	defer srv.Close()

	m, err := NewMirror(context.Background(), "sheet-1", "", "Products!A1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	err = m.Publish(context.Background(), []entity.CatalogProduct{{ID: "p1", Name: "Slate"}})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "/v4/spreadsheets/sheet-1/values/Products:clear")
	assert.Contains(t, calls[1], "PUT /v4/spreadsheets/sheet-1/values/Products!A1")
	values, ok := written["values"].([]any)
	require.True(t, ok)
	assert.Len(t, values, 2)
}
