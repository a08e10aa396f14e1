package gst

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// rewriteTransport forces requests onto the test server regardless of the
// https host the verifier builds.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func testClient(server *httptest.Server) *http.Client {
	u, _ := url.Parse(server.URL)
	return &http.Client{Transport: &rewriteTransport{target: u}}
}

func TestVerifyNotConfigured(t *testing.T) {
	v := NewVerifier(nil, "", "")
	if _, err := v.Verify(context.Background(), "29ABCDE1234F1Z5"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestVerifyTransformsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/gstin/29ABCDE1234F1Z5/details" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"gstin":"29ABCDE1234F1Z5",
			"legal_name":"VERMA TRADERS",
			"trade_name":"VT",
			"business_constitution":"Proprietorship",
			"status":"Active",
			"registration_date":"2019-04-01",
			"business_activity_nature":["Retail Business","Wholesale Business"],
			"state_jurisdiction":"Karnataka",
			"centre_jurisdiction":"Bengaluru",
			"place_of_business_principal":{"address":{"building_name":"12A","street":"MG Road","location":"Bengaluru","state":"Karnataka","pin_code":"560001"}}
		}}`))
	}))
	defer server.Close()

	v := NewVerifier(testClient(server), "gst-api.example.com", "test-key")
	details, err := v.Verify(context.Background(), "29ABCDE1234F1Z5")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if !details.GSTINValid {
		t.Error("expected gstin_valid")
	}
	if details.LegalName != "VERMA TRADERS" {
		t.Errorf("legal name: %q", details.LegalName)
	}
	if details.NatureOfBusiness != "Retail Business, Wholesale Business" {
		t.Errorf("nature of business: %q", details.NatureOfBusiness)
	}
	if details.Address != "12A, MG Road, Bengaluru, Karnataka, 560001" {
		t.Errorf("address: %q", details.Address)
	}
	if details.LastUpdateDate != "N/A" || details.EInvoiceStatus != "N/A" {
		t.Errorf("missing fields not defaulted: %q %q", details.LastUpdateDate, details.EInvoiceStatus)
	}
}

func TestVerifyUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	v := NewVerifier(testClient(server), "gst-api.example.com", "test-key")
	_, err := v.Verify(context.Background(), "29ABCDE1234F1Z5")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusForbidden {
		t.Fatalf("status: %d", ue.StatusCode)
	}
}
