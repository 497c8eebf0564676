package xledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	edges       []map[string]any
	hasNextPage bool
}

func connectionResponse(field string, p page) map[string]any {
	return map[string]any{
		"data": map[string]any{
			field: map[string]any{
				"edges":    p.edges,
				"pageInfo": map[string]any{"hasNextPage": p.hasNextPage},
			},
		},
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"currentSession": map[string]any{}}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	assert.NoError(t, client.Verify(context.Background()))
}

func TestVerifyBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", time.Second)
	assert.ErrorIs(t, client.Verify(context.Background()), ErrAuthFailed)
}

func TestAccountsPaginates(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		switch calls {
		case 1:
			assert.Nil(t, req.Variables["after"])
			_ = json.NewEncoder(w).Encode(connectionResponse("accounts", page{
				edges: []map[string]any{
					{"node": map[string]string{"code": "1234", "taxRule": "3"}, "cursor": "c1"},
					{"node": map[string]string{"code": "3000", "taxRule": "0"}, "cursor": "c2"},
				},
				hasNextPage: true,
			}))
		case 2:
			assert.Equal(t, "c2", req.Variables["after"])
			_ = json.NewEncoder(w).Encode(connectionResponse("accounts", page{
				edges: []map[string]any{
					{"node": map[string]string{"code": "5678", "taxRule": "3"}, "cursor": "c3"},
				},
			}))
		default:
			t.Fatalf("unexpected call %d", calls)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)

	require.Len(t, accounts, 3)
	assert.Equal(t, "1234", accounts[0].Code)
	assert.Equal(t, "5678", accounts[2].Code)
	assert.Equal(t, 2, calls)
}

func TestQueryGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": "field not found"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	_, err := client.Accounts(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorContains(t, err, "field not found")
}

func TestFetchAllMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	_, err := client.Projects(context.Background())
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestObjectKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(connectionResponse("objectKinds", page{
			edges: []map[string]any{
				{"node": map[string]string{"id": "OK1", "name": "Property"}, "cursor": "c1"},
			},
		}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", time.Second)
	kinds, err := client.ObjectKinds(context.Background())
	require.NoError(t, err)
	require.Len(t, kinds, 1)
	assert.Equal(t, "OK1", kinds[0].ID)
	assert.Equal(t, "Property", kinds[0].Name)
}
