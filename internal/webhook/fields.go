package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
)

// Gateways name the same logical field differently depending on the API that
// sent the notification (bank API, checkout IPN, SDK). Each rule lists the
// candidate keys in priority order; the first non-empty value wins.
var (
	AmountFields       = []string{"transferAmount", "amount", "order_amount", "transaction_amount"}
	ContentFields      = []string{"content", "transfer_content", "order_description", "description"}
	ReferenceFields    = []string{"referenceCode", "id", "transaction_id", "order_invoice_number", "order_id", "invoice_number"}
	StatusFields       = []string{"order_status", "status"}
	TransferTypeFields = []string{"transferType"}
)

// successStatuses are the gateway order states that mean money arrived.
var successStatuses = map[string]struct{}{
	"completed": {},
	"captured":  {},
	"success":   {},
	"paid":      {},
}

type Fields struct {
	Amount       decimal.Decimal
	Content      string
	Reference    string
	Status       string
	TransferType string
}

// Extract decodes a notification body and resolves every logical field.
// The body must be exactly one JSON object.
// An unparseable amount is reported as zero.
func Extract(body []byte) (Fields, error) {
	if !json.Valid(body) {
		return Fields{}, pkgerrors.ErrMalformedPayload
	}
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return Fields{}, pkgerrors.ErrMalformedPayload
	}

	f := Fields{
		Content:      FirstNonEmpty(payload, ContentFields),
		Reference:    FirstNonEmpty(payload, ReferenceFields),
		Status:       FirstNonEmpty(payload, StatusFields),
		TransferType: FirstNonEmpty(payload, TransferTypeFields),
	}
	if raw := FirstNonEmpty(payload, AmountFields); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			f.Amount = amount
		}
	}
	return f, nil
}

// Successful applies the gateway status gate. A transfer direction, when
// present, decides on its own; otherwise the order status must be a success
// state. A notification without either is treated as completed.
func (f Fields) Successful() bool {
	if f.TransferType != "" {
		return strings.EqualFold(f.TransferType, "in")
	}
	status := strings.ToLower(f.Status)
	if status == "" {
		status = "completed"
	}
	_, ok := successStatuses[status]
	return ok
}

func FirstNonEmpty(payload map[string]any, keys []string) string {
	for _, key := range keys {
		if v := stringValue(payload[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
