package wechatpay

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"task-manager/internal/domain"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/logging"
)

// DefaultTimeout bounds each request when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxBillSize caps the downloaded bill file.
const maxBillSize = 32 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	BillType   string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Now is used to compute today's bill date.
	Now func() time.Time
}

// Client fetches and parses daily trade bills.
// It keeps no state between calls and never retries.
type Client struct {
	signer     *Signer
	baseURL    string
	billType   string
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a bill client signing requests with signer.
func NewClient(signer *Signer, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.BillType == "" {
		opts.BillType = "ALL"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Client{
		signer:     signer,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		billType:   opts.BillType,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		now:        opts.Now,
	}
}

// Today returns the current bill date as a UTC calendar date.
func (c *Client) Today() string {
	return c.now().UTC().Format(time.DateOnly)
}

// FetchTodayBills fetches the bill records for today's UTC date.
func (c *Client) FetchTodayBills(ctx context.Context) ([]domain.BillRecord, error) {
	return c.FetchBills(ctx, c.Today())
}

// FetchBills queries the trade bill for date (YYYY-MM-DD), downloads it,
// checks its digest and returns its records in provider order.
func (c *Client) FetchBills(ctx context.Context, date string) ([]domain.BillRecord, error) {
	logger := logging.FromContext(ctx).With().Str("bill_date", date).Logger()

	bill, err := c.queryTradeBill(ctx, date)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("hash_type", bill.HashType).Msg("trade bill ready for download")

	data, err := c.download(ctx, bill.DownloadURL)
	if err != nil {
		return nil, err
	}

	if err := verifyDigest(data, bill.HashType, bill.HashValue); err != nil {
		return nil, apperrors.NewFetchError("verify trade bill", 0, err)
	}

	records, err := ParseTradeBill(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewFetchError("parse trade bill", 0, err)
	}

	logger.Debug().Int("records", len(records)).Msg("trade bill parsed")
	return records, nil
}

func (c *Client) queryTradeBill(ctx context.Context, date string) (*TradeBillResponse, error) {
	const operation = "query trade bill"

	query := url.Values{}
	query.Set("bill_date", date)
	query.Set("bill_type", c.billType)

	body, err := c.get(ctx, operation, c.baseURL+tradeBillPath+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var bill TradeBillResponse
	if err := json.Unmarshal(body, &bill); err != nil {
		return nil, apperrors.NewFetchError(operation, 0, fmt.Errorf("decode response: %w", err))
	}
	if bill.DownloadURL == "" {
		return nil, apperrors.NewFetchError(operation, 0, errors.New("response has no download_url"))
	}
	return &bill, nil
}

func (c *Client) download(ctx context.Context, downloadURL string) ([]byte, error) {
	return c.get(ctx, "download trade bill", downloadURL)
}

// get performs a signed GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, operation, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError(operation, 0, err)
	}

	auth, err := c.signer.Authorization(http.MethodGet, req.URL.RequestURI(), "")
	if err != nil {
		return nil, apperrors.NewFetchError(operation, 0, err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "task-manager")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(operation, c.timeout.String())
		}
		return nil, apperrors.NewFetchError(operation, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBillSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(operation, c.timeout.String())
		}
		return nil, apperrors.NewFetchError(operation, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := apperrors.NewFetchError(operation, resp.StatusCode, nil)
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			fetchErr.Cause = errors.New(apiErr.String())
			fetchErr.WithContext("provider_code", apiErr.Code)
		}
		return nil, fetchErr
	}

	return body, nil
}

func verifyDigest(data []byte, hashType, expected string) error {
	var h hash.Hash
	switch strings.ToUpper(hashType) {
	case HashTypeSHA1:
		h = sha1.New()
	case HashTypeSHA256:
		h = sha256.New()
	default:
		return fmt.Errorf("unsupported hash type %q", hashType)
	}
	h.Write(data)

	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%s digest mismatch: got %s, want %s", hashType, actual, expected)
	}
	return nil
}
