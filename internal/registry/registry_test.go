package registry

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(t *testing.T, status int, body string) (*Client, *string) {
	t.Helper()

	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("could not parse server URL: %v", err)
	}
	return New(base, "api-token"), &path
}

func TestLookup(t *testing.T) {

	c, path := newTestClient(t, http.StatusOK, `{"placa":"ABC1234","MARCA":"FIAT"}`)

	rec, err := c.Lookup("ABC1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "/consulta/ABC1234/api-token"; *path != want {
		t.Errorf("expected path %q, got %q", want, *path)
	}
	if rec.Plate != "ABC1234" {
		t.Errorf("expected plate ABC1234, got %q", rec.Plate)
	}
	if rec.Doc != `{"placa":"ABC1234","MARCA":"FIAT"}` {
		t.Errorf("unexpected doc: %q", rec.Doc)
	}
}

func TestLookupErrors(t *testing.T) {

	tt := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "{}"},
		{name: "invalid JSON", status: http.StatusOK, body: "not json"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.status, tc.body)
			if _, err := c.Lookup("ABC1234"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
