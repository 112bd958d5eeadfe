package api_test

import (
	"testing"
)

func TestZZProbeLoginBody(t *testing.T) {
	ta := newTestApp(t)
	resp, body := ta.request(t, "POST", "/api/auth/login", "", map[string]any{
		"email":    "admin@demo.com",
		"password": "admin123",
	})
	t.Logf("status=%d body=%#v", resp.StatusCode, body)
}
