// Package gateway is the HTTP client for the upstream inventory API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inventaris_admin/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 8 << 20

type Client struct {
	base    string
	hc      *http.Client
	timeout time.Duration
}

// New builds a Client with a pooled, traced transport.
func New(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	hc := &http.Client{Transport: otelhttp.NewTransport(transport)}
	return NewWithHTTPClient(baseURL, hc, timeout)
}

func NewWithHTTPClient(baseURL string, hc *http.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc, timeout: timeout}
}

// Login: POST /auth/login
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	b, _ := json.Marshal(creds)
	var out LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", bytes.NewReader(b), "application/json", &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Op: "login", Kind: KindDecode, Err: errors.New("token missing from response")}
	}
	return &out, nil
}

func (c *Client) ListItems(ctx context.Context, token string) ([]models.Item, error) {
	return getList[models.Item](ctx, c, "list items", "/items", token)
}

func (c *Client) ListLoans(ctx context.Context, token string) ([]models.Loan, error) {
	return listLoans(ctx, c, "list loans", "/loans", token)
}

func (c *Client) LoanHistory(ctx context.Context, token string) ([]models.Loan, error) {
	return listLoans(ctx, c, "loan history", "/loan-history", token)
}

func listLoans(ctx context.Context, c *Client, op, path, token string) ([]models.Loan, error) {
	ls, err := getList[models.Loan](ctx, c, op, path, token)
	if err != nil {
		return nil, err
	}
	for i := range ls {
		if err := checkLoan(op, &ls[i]); err != nil {
			return nil, err
		}
	}
	return ls, nil
}

// checkLoan rejects loans upstream sent without a status.
func checkLoan(op string, l *models.Loan) error {
	if l.Status.Valid() {
		return nil
	}
	return &Error{Op: op, Kind: KindDecode, Err: fmt.Errorf("loan %q has no status", l.Ref())}
}

func (c *Client) CreateLoan(ctx context.Context, token string, f LoanForm) (*models.Loan, error) {
	body, ct, err := f.encode()
	if err != nil {
		return nil, &Error{Op: "create loan", Kind: KindRejected, Err: err}
	}
	return c.loanWrite(ctx, "create loan", http.MethodPost, "/loans", token, body, ct)
}

// UpdateLoan replaces the descriptive fields; status is left untouched.
func (c *Client) UpdateLoan(ctx context.Context, token, ref string, f LoanForm) (*models.Loan, error) {
	body, ct, err := f.encode()
	if err != nil {
		return nil, &Error{Op: "update loan", Kind: KindRejected, Err: err}
	}
	return c.loanWrite(ctx, "update loan", http.MethodPut, loanPath(ref), token, body, ct)
}

// UpdateLoanStatus: PUT /loans/{ref} {"status": "..."}.
// A nil loan with nil error means upstream acknowledged without a body.
func (c *Client) UpdateLoanStatus(ctx context.Context, token, ref string, st models.Status) (*models.Loan, error) {
	b, err := json.Marshal(map[string]models.Status{"status": st})
	if err != nil {
		return nil, &Error{Op: "update status", Kind: KindRejected, Err: err}
	}
	return c.loanWrite(ctx, "update status", http.MethodPut, loanPath(ref), token, bytes.NewReader(b), "application/json")
}

func loanPath(ref string) string { return "/loans/" + url.PathEscape(ref) }

func (c *Client) loanWrite(ctx context.Context, op, method, path, token string, body io.Reader, ct string) (*models.Loan, error) {
	var out envelope[models.Loan]
	if err := c.do(ctx, op, method, path, token, body, ct, &out); err != nil {
		return nil, err
	}
	if out.Data != nil {
		if err := checkLoan(op, out.Data); err != nil {
			return nil, err
		}
	}
	return out.Data, nil
}

func getList[T any](ctx context.Context, c *Client, op, path, token string) ([]T, error) {
	var out envelope[[]T]
	if err := c.do(ctx, op, http.MethodGet, path, token, nil, "", &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: errors.New(`response has no "data" list`)}
	}
	return *out.Data, nil
}

// do sends one request. An empty 2xx body leaves out untouched.
func (c *Client) do(ctx context.Context, op, method, path, token string, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &Error{Op: op, Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindUnavailable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op, Kind: KindUnavailable, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (f LoanForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"nama_peminjam", f.BorrowerName},
		{"barang_id", strconv.FormatInt(f.ItemID, 10)},
		{"jumlah", strconv.Itoa(f.Quantity)},
		{"tanggal_pinjam", f.BorrowedDate.String()},
		{"tanggal_kembali_direncanakan", f.PlannedReturnDate.String()},
	}
	if f.File == nil && f.AttachmentPath != "" {
		fields = append(fields, [2]string{"path_file_peminjaman", f.AttachmentPath})
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	if f.File != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.File.Name))
		ct := f.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.File.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
