package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

func TestClient_Add(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body addRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, addRequest{ProductID: "p1", Quantity: 2}, body)

		_, _ = w.Write([]byte(`{"items":[{"productId":"p1","quantity":7}],"total":10}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, nil)
	items, err := client.Add(context.Background(), "tok", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.LineItem{{ProductID: "p1", Quantity: 7}}, items)
}

func TestClient_RemoveEscapesProductID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cart/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL, time.Second, nil).Remove(context.Background(), "tok", "a/b")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("token expired\n"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Fetch(context.Background(), "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteStatus)

	var statusErr *domain.RemoteStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "token expired", statusErr.Body)
	assert.Equal(t, "fetch", statusErr.Op)
}

func TestClient_MissingItemsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Fetch(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	_, err := client.Add(context.Background(), "tok", "p1", 1)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Error(t, client.Ping(context.Background()))
}

func TestClient_RequiresToken(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second, nil).Add(context.Background(), "", "p1", 1)
	assert.ErrorIs(t, err, domain.ErrSessionRequired)
}

func TestClient_Products(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Lamp","price":1000,"salePrice":800}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, nil)
	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(800), products[0].EffectivePriceMinor())
	assert.NoError(t, client.Ping(context.Background()))
}
