package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                           "/",
		"/metrics":                   "/metrics",
		"/v1/students":               "/v1/students",
		"/v1/students/01HYX3":        "/v1/students/:id",
		"/v1/students/01HYX3?x=1":    "/v1/students/:id",
		"/v1/students/01HYX3/extra":  "/v1/students/01HYX3/extra",
		"/v1/cache/reload":           "/v1/cache/reload",
		"/v1/cache/reload?source=ui": "/v1/cache/reload",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
