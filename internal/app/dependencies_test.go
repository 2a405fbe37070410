package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

func writeCatalogFile(t *testing.T, products []domain.Product) string {
	t.Helper()
	raw, err := json.Marshal(products)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestNewDependencies_Memory(t *testing.T) {
	cfg := memoryConfig()
	cfg.Catalog.File = writeCatalogFile(t, []domain.Product{{ID: "p1", Name: "Mug", PriceMinor: 1000}})

	deps, err := NewDependencies(context.Background(), cfg, log.WithField("test", "deps-memory"))
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.API, "remote api must stay disabled without base url")
	assert.Nil(t, deps.Producer)
	assert.Equal(t, 1, deps.Catalog.Len())

	require.NoError(t, deps.Cart.AddToCart(context.Background(), "p1", 2))
	assert.Equal(t, int64(2000), deps.Cart.CartTotal())

	raw, err := deps.Storage.Get(context.Background(), domain.CartStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, raw)
}

func TestNewDependencies_LevelDBSurvivesRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = StorageDriverLevelDB
	cfg.Storage.Path = filepath.Join(t.TempDir(), "cart")

	deps, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, deps.Cart.AddToCart(context.Background(), "p1", 3))
	deps.Close()

	deps, err = NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer deps.Close()
	assert.Equal(t, 3, deps.Cart.ItemQuantity("p1"))
}

func TestNewDependencies_CatalogFromRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Product{{ID: "p9", Name: "Lamp", PriceMinor: 4200}})
	}))
	defer srv.Close()

	cfg := memoryConfig()
	cfg.APIBaseURL = srv.URL

	deps, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer deps.Close()

	require.NotNil(t, deps.API)
	product, ok := deps.Catalog.ProductByID("p9")
	require.True(t, ok)
	assert.Equal(t, "Lamp", product.Name)
}

func TestNewDependencies_RemoteCatalogFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := memoryConfig()
	cfg.APIBaseURL = srv.URL

	deps, err := NewDependencies(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer deps.Close()
	assert.Equal(t, 0, deps.Catalog.Len())
}

func TestNewDependencies_BadCatalogFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.Catalog.File = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewDependencies(context.Background(), cfg, nil)
	require.Error(t, err)
}
