package buckaroo

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Form field names of a Buckaroo push.
const (
	InvoiceNumberField = "brq_invoicenumber"
	StatusCodeField    = "brq_statuscode"
	StatusMessageField = "brq_statusmessage"
)

const maxMultipartMemory = 32 << 20

// Transport is the encoding a push notification arrived in.
type Transport int

const (
	TransportJSON Transport = iota + 1
	TransportFormPost
	TransportQueryGet
)

func (t Transport) String() string {
	switch t {
	case TransportJSON:
		return "json"
	case TransportFormPost:
		return "form_post"
	case TransportQueryGet:
		return "query_get"
	default:
		return "unknown"
	}
}

// RawNotification is a push request reduced to what verification needs.
// Body is set for TransportJSON only; Fields and SuppliedSignature for the
// form and query transports.
type RawNotification struct {
	Transport         Transport
	Body              []byte
	Fields            CanonicalFieldSet
	SuppliedSignature string
}

// Parse extracts a RawNotification from r using the given transport. The JSON
// body is returned unparsed because the raw bytes are the signing input.
func Parse(transport Transport, r *http.Request) (*RawNotification, error) {
	switch transport {
	case TransportJSON:
		if r.Body == nil {
			return &RawNotification{Transport: transport, Body: []byte{}}, nil
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrMalformedNotification, err)
		}
		return &RawNotification{Transport: transport, Body: body}, nil

	case TransportFormPost:
		values, err := formValues(r)
		if err != nil {
			return nil, err
		}
		return fromValues(transport, values), nil

	case TransportQueryGet:
		return fromValues(transport, r.URL.Query()), nil

	default:
		return nil, fmt.Errorf("%w: transport %d", ErrMalformedNotification, int(transport))
	}
}

func fromValues(transport Transport, values url.Values) *RawNotification {
	return &RawNotification{
		Transport:         transport,
		Fields:            Canonicalize(values),
		SuppliedSignature: values.Get(SignatureField),
	}
}

// InvoiceNumber looks the invoice number up in the form body first and the
// query string second, independent of the configured push content type.
func InvoiceNumber(r *http.Request) (string, error) {
	var invoiceNumber string
	if _, ok := formMediaType(r); ok {
		values, err := formValues(r)
		if err == nil {
			invoiceNumber = values.Get(InvoiceNumberField)
		}
	}

	if invoiceNumber == "" {
		invoiceNumber = r.URL.Query().Get(InvoiceNumberField)
	}

	if strings.TrimSpace(invoiceNumber) == "" {
		return "", ErrNoInvoiceNumber
	}
	return invoiceNumber, nil
}

// formMediaType returns the lowercased media type when r carries a form body.
func formMediaType(r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return mediaType, true
	}
	return "", false
}

// formValues returns only the body fields of a form post.
func formValues(r *http.Request) (url.Values, error) {
	mediaType, ok := formMediaType(r)
	if !ok {
		return url.Values{}, nil
	}

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse form: %v", ErrMalformedNotification, err)
	}
	return r.PostForm, nil
}
