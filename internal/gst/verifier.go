// Package gst proxies GSTIN verification to the RapidAPI GST details service
// and flattens the response into the shape the frontend expects.
package gst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotConfigured is returned when the RapidAPI credentials are absent.
var ErrNotConfigured = errors.New("gst verification is not configured")

// UpstreamError carries the status code of a non-200 upstream response so the
// handler can pass it through.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gst upstream returned %d: %s", e.StatusCode, e.Message)
}

// Details is the flattened verification result.
type Details struct {
	LegalName          string `json:"legal_name"`
	TradeName          string `json:"trade_name"`
	BusinessType       string `json:"business_type"`
	GSTStatus          string `json:"gst_status"`
	GSTINValid         bool   `json:"gstin_valid"`
	RegistrationDate   string `json:"registration_date"`
	LastUpdateDate     string `json:"last_update_date"`
	NatureOfBusiness   string `json:"nature_of_business"`
	Address            string `json:"address"`
	StateJurisdiction  string `json:"state_jurisdiction"`
	CenterJurisdiction string `json:"center_jurisdiction"`
	GSTNumber          string `json:"gst_number"`
	EInvoiceStatus     string `json:"e_invoice_status"`
}

// upstreamResponse mirrors the fields of the RapidAPI payload we consume.
type upstreamResponse struct {
	Data struct {
		GSTIN                string   `json:"gstin"`
		LegalName            string   `json:"legal_name"`
		TradeName            string   `json:"trade_name"`
		BusinessConstitution string   `json:"business_constitution"`
		Status               string   `json:"status"`
		RegistrationDate     string   `json:"registration_date"`
		LastUpdateDate       string   `json:"last_update_date"`
		BusinessActivity     []string `json:"business_activity_nature"`
		StateJurisdiction    string   `json:"state_jurisdiction"`
		CentreJurisdiction   string   `json:"centre_jurisdiction"`
		EInvoiceStatus       string   `json:"e_invoice_status"`
		PrincipalPlace       struct {
			Address struct {
				BuildingName string `json:"building_name"`
				Street       string `json:"street"`
				Location     string `json:"location"`
				State        string `json:"state"`
				PinCode      string `json:"pin_code"`
			} `json:"address"`
		} `json:"place_of_business_principal"`
	} `json:"data"`
}

// Verifier calls the RapidAPI GSTIN details endpoint through an injected
// http.Client, keeping the HTTP dependency swappable in tests.
type Verifier struct {
	client  *http.Client
	apiHost string
	apiKey  string
}

// NewVerifier returns a Verifier. apiHost and apiKey may be empty, in which
// case Verify fails with ErrNotConfigured.
func NewVerifier(client *http.Client, apiHost, apiKey string) *Verifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Verifier{client: client, apiHost: apiHost, apiKey: apiKey}
}

// Verify looks up a GSTIN and returns flattened details.
func (v *Verifier) Verify(ctx context.Context, gstin string) (*Details, error) {
	if v.apiHost == "" || v.apiKey == "" {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("https://%s/v1/gstin/%s/details", v.apiHost, gstin)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build gst request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", v.apiKey)
	req.Header.Set("X-RapidAPI-Host", v.apiHost)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gst service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "GST verification failed"}
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode gst response: %w", err)
	}

	d := body.Data
	details := &Details{
		LegalName:          d.LegalName,
		TradeName:          d.TradeName,
		BusinessType:       d.BusinessConstitution,
		GSTStatus:          d.Status,
		GSTINValid:         d.GSTIN != "",
		RegistrationDate:   d.RegistrationDate,
		LastUpdateDate:     orNA(d.LastUpdateDate),
		NatureOfBusiness:   strings.Join(d.BusinessActivity, ", "),
		Address:            formatAddress(d.PrincipalPlace.Address.BuildingName, d.PrincipalPlace.Address.Street, d.PrincipalPlace.Address.Location, d.PrincipalPlace.Address.State, d.PrincipalPlace.Address.PinCode),
		StateJurisdiction:  d.StateJurisdiction,
		CenterJurisdiction: d.CentreJurisdiction,
		GSTNumber:          d.GSTIN,
		EInvoiceStatus:     orNA(d.EInvoiceStatus),
	}
	return details, nil
}

func formatAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return "N/A"
	}
	return strings.Join(nonEmpty, ", ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
