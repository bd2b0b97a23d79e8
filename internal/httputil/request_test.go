package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))
	require.Equal(t, "x", dest.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	require.Error(t, ParseJSON(httptest.NewRecorder(), req, &dest))
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var gotID int64
	var gotErr error
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotID, gotErr = PathID(r, "id")
	})

	for _, tc := range []struct {
		path   string
		wantID int64
		wantOK bool
	}{
		{"/items/7", 7, true},
		{"/items/0", 0, false},
		{"/items/-3", 0, false},
		{"/items/abc", 0, false},
	} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
		if tc.wantOK {
			require.NoError(t, gotErr, tc.path)
			require.Equal(t, tc.wantID, gotID, tc.path)
		} else {
			require.Error(t, gotErr, tc.path)
		}
	}
}

func TestQueryInt64(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?project_id=9", nil)
	v, err := QueryInt64(req, "project_id")
	require.NoError(t, err)
	require.Equal(t, int64(9), v)

	// Absent parameter means "not filtered", not an error
	v, err = QueryInt64(req, "missing")
	require.NoError(t, err)
	require.Zero(t, v)

	req = httptest.NewRequest(http.MethodGet, "/?project_id=x", nil)
	_, err = QueryInt64(req, "project_id")
	require.Error(t, err)
}
