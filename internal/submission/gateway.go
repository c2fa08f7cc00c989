// Package submission packages a finished draft with its PDF artifact and
// transmits the pair to the upstream records endpoint.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kertas-app/kertas/internal/document"
)

// FieldErrors carries the server's per-field rejection messages, keyed by
// the offending field name.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "submission rejected"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "submission rejected: " + strings.Join(parts, "; ")
}

// Gateway posts drafts to the configured upstream endpoint.
type Gateway struct {
	endpoint   string
	httpClient *http.Client
}

// NewGateway constructs a gateway against the given endpoint URL.
func NewGateway(endpoint string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorResponse is the upstream rejection envelope. Unprocessable
// submissions come back with string messages keyed by field name.
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Submit sends the draft's scalar fields, the line items as a JSON
// services array and the PDF binary as one multipart request. A 422
// response is decoded into FieldErrors so callers can surface each
// message next to its field.
func (g *Gateway) Submit(ctx context.Context, d *document.Draft, pdf []byte) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeScalarFields(writer, d); err != nil {
		return err
	}

	services, err := json.Marshal(d.State.Items)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}
	if err := writer.WriteField("services", string(services)); err != nil {
		return err
	}

	part, err := writer.CreateFormFile("pdf_file", d.State.Number+".pdf")
	if err != nil {
		return err
	}
	if _, err := part.Write(pdf); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit %s: %w", d.Kind, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 400 {
		return nil
	}
	return decodeRejection(resp)
}

func writeScalarFields(writer *multipart.Writer, d *document.Draft) error {
	s := d.State
	fields := map[string]string{
		"kind":               string(d.Kind),
		"number":             s.Number,
		"party_type":         string(s.Party.PartyType),
		"party_id":           strconv.FormatInt(s.Party.PartyID, 10),
		"contact_id":         strconv.FormatInt(s.Party.ContactID, 10),
		"subject":            s.Subject,
		"payment_terms":      s.PaymentTerms,
		"note":               s.Note,
		"discount_amount":    formatFloat(discountAmount(s.Rates)),
		"ppn_rate":           formatFloat(s.Rates.PPNRate),
		"pph_rate":           formatFloat(s.Rates.PPHRate),
		"payment_type":       string(s.Rates.PaymentType),
		"payment_percentage": formatFloat(s.Rates.PaymentPercentage),
		"sub_total":          formatFloat(d.Totals.SubTotal),
		"total":              formatFloat(d.Totals.Total),
	}
	if s.Rates.TaxName != nil {
		fields["tax_name"] = *s.Rates.TaxName
		fields["tax_rate"] = formatFloat(s.Rates.TaxRate)
	}
	if s.Rates.PPNName != "" {
		fields["ppn_name"] = s.Rates.PPNName
	}
	if s.Rates.PPHName != "" {
		fields["pph_name"] = s.Rates.PPHName
	}
	if s.Date != nil {
		fields["date"] = s.Date.Format("2006-01-02")
	}
	if s.ValidUntil != nil {
		fields["valid_until"] = s.ValidUntil.Format("2006-01-02")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

func decodeRejection(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("submission failed with status %d", resp.StatusCode)
	}

	var envelope errorResponse
	if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && len(envelope.Errors) > 0 {
		return FieldErrors(envelope.Errors)
	}
	return fmt.Errorf("submission failed with status %d", resp.StatusCode)
}

func discountAmount(r document.RateSelection) float64 {
	if !r.DiscountEnabled {
		return 0
	}
	return r.DiscountAmount
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
