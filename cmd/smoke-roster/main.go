package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Smoke client for a running roster-api. It exercises the owner isolation
// path end to end: two owners, one record, and every cross-owner read must
// come back 404.

type tokenResp struct {
	Token string `json:"token"`
}

type student struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Code    string `json:"code"`
}

type listResp struct {
	Items []student `json:"items"`
	Count int       `json:"count"`
}

type reloadResp struct {
	OwnerID string `json:"owner_id"`
	Success bool   `json:"success"`
}

type client struct {
	base  string
	http  *http.Client
	token string
}

func (c *client) call(method, path string, body any, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func newOwnerClient(base, ownerID string) *client {
	c := &client{base: base, http: &http.Client{Timeout: 5 * time.Second}}
	var tok tokenResp
	code, err := c.call(http.MethodPost, "/v1/auth/token", map[string]any{"owner_id": ownerID}, &tok)
	if err != nil || code != http.StatusOK || tok.Token == "" {
		log.Fatalf("obtain token for %s: status=%d err=%v", ownerID, code, err)
	}
	c.token = tok.Token
	return c
}

func main() {
	base := os.Getenv("SALAREAN_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	ownerA := newOwnerClient(base, fmt.Sprintf("smoke-a-%d", time.Now().UnixNano()))
	ownerB := newOwnerClient(base, fmt.Sprintf("smoke-b-%d", time.Now().UnixNano()))

	var created student
	code, err := ownerA.call(http.MethodPost, "/v1/students", map[string]any{
		"code":      "SMOKE-001",
		"full_name": "Smoke Test Student",
	}, &created)
	if err != nil || code != http.StatusCreated {
		log.Fatalf("create student: status=%d err=%v", code, err)
	}

	var listA listResp
	if code, err = ownerA.call(http.MethodGet, "/v1/students", nil, &listA); err != nil || code != http.StatusOK {
		log.Fatalf("list as owner A: status=%d err=%v", code, err)
	}
	if listA.Count != 1 {
		log.Fatalf("owner A expected 1 record, got %d", listA.Count)
	}

	var listB listResp
	if code, err = ownerB.call(http.MethodGet, "/v1/students", nil, &listB); err != nil || code != http.StatusOK {
		log.Fatalf("list as owner B: status=%d err=%v", code, err)
	}
	if listB.Count != 0 {
		log.Fatalf("owner B sees %d foreign records", listB.Count)
	}

	if code, err = ownerB.call(http.MethodGet, "/v1/students/"+created.ID, nil, nil); err != nil || code != http.StatusNotFound {
		log.Fatalf("cross-owner get: want 404, got %d (err=%v)", code, err)
	}
	if code, err = ownerB.call(http.MethodDelete, "/v1/students/"+created.ID, nil, nil); err != nil || code != http.StatusNotFound {
		log.Fatalf("cross-owner delete: want 404, got %d (err=%v)", code, err)
	}

	var receipt reloadResp
	if code, err = ownerA.call(http.MethodPost, "/v1/cache/reload", nil, &receipt); err != nil || code != http.StatusOK || !receipt.Success {
		log.Fatalf("cache reload: status=%d success=%v err=%v", code, receipt.Success, err)
	}

	if code, err = ownerA.call(http.MethodDelete, "/v1/students/"+created.ID, map[string]any{"reason": "smoke cleanup"}, nil); err != nil || code != http.StatusOK {
		log.Fatalf("cleanup delete: status=%d err=%v", code, err)
	}

	fmt.Printf("✅ roster smoke test passed: student=%s\n", created.ID)
}
