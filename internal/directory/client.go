package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/slotbook/internal/provider"
	"github.com/example/slotbook/internal/schedule"
)

// Client talks to the external directory service. The service owns providers,
// slot templates and booking serialization; this client only reads snapshots
// and submits requests. Endpoint paths, JSON field names and the token header
// names are fixed by the deployed API and must not be renamed.
type Client struct {
	hc   *http.Client
	base string
	log  *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	return &Client{
		hc:   &http.Client{Timeout: 10 * time.Second},
		base: strings.TrimRight(baseURL, "/"),
		log:  log,
	}
}

// RejectedError is a well-formed refusal from the directory service
// (success=false with a message). The message is shown to the user verbatim.
type RejectedError struct{ Message string }

func (e *RejectedError) Error() string { return e.Message }

type apiEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Doctors []provider.Provider `json:"doctors"`
}

// Providers fetches the current directory snapshot, including each provider's
// slot template.
func (c *Client) Providers(ctx context.Context) ([]provider.Provider, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/doctor/list", "", nil)
	if err != nil {
		return nil, err
	}
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("directory list: decode (status=%d): %w", status, err)
	}
	if status >= 400 || !env.Success {
		if env.Message != "" {
			return nil, &RejectedError{Message: env.Message}
		}
		return nil, fmt.Errorf("directory list failed (status=%d)", status)
	}
	return env.Doctors, nil
}

type bookRequest struct {
	DocID    string `json:"docId"`
	SlotDate string `json:"slotDate"`
	SlotTime string `json:"slotTime"`
}

// BookSlot submits one booking request and returns the server confirmation
// message. The request is sent exactly once; duplicate prevention and
// conflict rejection are the service's responsibility.
func (c *Client) BookSlot(ctx context.Context, providerID string, date schedule.DateKey, slotLabel, token string) (string, error) {
	payload, err := json.Marshal(bookRequest{
		DocID:    providerID,
		SlotDate: string(date),
		SlotTime: slotLabel,
	})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/user/book-appointment", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("token", token)

	status, body, err := c.send(req)
	if err != nil {
		return "", err
	}
	return messageOrError(status, body, "book appointment")
}

// AddProvider registers a new provider as one multipart transaction: the
// profile image plus form fields, with address and slots JSON-encoded the way
// the admin API expects them.
func (c *Client) AddProvider(ctx context.Context, reg provider.Registration, image io.Reader, imageName, adminToken string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", imageName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	addr, err := json.Marshal(reg.Address)
	if err != nil {
		return "", err
	}
	slots, err := json.Marshal([]string(reg.Slots))
	if err != nil {
		return "", err
	}
	fields := map[string]string{
		"name":       reg.Name,
		"email":      reg.Email,
		"password":   reg.Password,
		"experience": reg.Experience,
		"fees":       strconv.FormatFloat(reg.Fee, 'f', -1, 64),
		"about":      reg.About,
		"speciality": reg.Speciality,
		"degree":     reg.Degree,
		"address":    string(addr),
		"slots":      string(slots),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/admin/add-doctor", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", mw.FormDataContentType())
	req.Header.Set("aToken", adminToken)

	status, body, err := c.send(req)
	if err != nil {
		return "", err
	}
	return messageOrError(status, body, "add provider")
}

func messageOrError(status int, body []byte, op string) (string, error) {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%s: decode (status=%d): %w", op, status, err)
	}
	if !env.Success {
		if env.Message != "" {
			return "", &RejectedError{Message: env.Message}
		}
		return "", fmt.Errorf("%s failed (status=%d)", op, status)
	}
	return env.Message, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.base+path, body)
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (int, []byte, error) {
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("token", token)
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) (int, []byte, error) {
	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	if c.log != nil {
		c.log.Debug("directory request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", res.StatusCode))
	}
	return res.StatusCode, b, nil
}
