// Package shop implements the HTTP client for the remote product source.
// Requests are context-aware and paced by a shared rate limiter. There are
// no retries: a failed request is reported once and left to the caller.
package shop

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/util"
)

const userAgent = "storefront-cli/1.0"

// ErrMalformedResponse is wrapped by every ResponseError.
var ErrMalformedResponse = errors.New("malformed product response")

// ResponseError reports a body that was received but is not a sequence of
// product records.
type ResponseError struct {
	Reason string
}

func (e *ResponseError) Error() string {
	return ErrMalformedResponse.Error() + ": " + e.Reason
}

// Malformed marks the error as a response-shape problem for the loader.
func (e *ResponseError) Malformed() bool { return true }

func (e *ResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// Client is the product source HTTP client.
type Client struct {
	productsURL string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         *slog.Logger
}

// NewClient creates a Client for the given products endpoint.
// A zero timeout leaves requests unbounded; ratePerSec <= 0 disables pacing.
// Request and response lines are logged at debug level to log, or to
// slog.Default() when log is nil.
func NewClient(productsURL string, timeout time.Duration, ratePerSec float64, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	limit := rate.Limit(ratePerSec)
	if ratePerSec <= 0 {
		limit = rate.Inf
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		productsURL: productsURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// ListProducts fetches the full product collection.
// An empty array is returned as an empty slice; deciding whether that is a
// failure is up to the caller.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products, err := decodeProducts(body)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// decodeProducts validates that body is a JSON array of objects and decodes
// each element into a Product. Only the array and object shapes are checked:
// a field whose value has the wrong JSON type is left at its zero value.
func decodeProducts(body []byte) ([]model.Product, error) {
	d := jx.DecodeBytes(body)
	if t := d.Next(); t != jx.Array {
		return nil, &ResponseError{Reason: "expected a JSON array, got " + t.String()}
	}

	products := []model.Product{}
	idx := 0
	err := d.Arr(func(d *jx.Decoder) error {
		if t := d.Next(); t != jx.Object {
			return &ResponseError{Reason: "element " + strconv.Itoa(idx) + " is " + t.String() + ", not an object"}
		}
		var p model.Product
		if err := decodeProduct(d, &p); err != nil {
			return &ResponseError{Reason: "element " + strconv.Itoa(idx) + ": " + err.Error()}
		}
		products = append(products, p)
		idx++
		return nil
	})
	if err != nil {
		var re *ResponseError
		if errors.As(err, &re) {
			return nil, re
		}
		return nil, &ResponseError{Reason: err.Error()}
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder, p *model.Product) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			n, ok, err := readNum(d)
			if err != nil || !ok {
				return err
			}
			if v, err := n.Int64(); err == nil {
				p.ID = int(v)
			}
		case "title":
			return readStr(d, &p.Title)
		case "price":
			n, ok, err := readNum(d)
			if err != nil || !ok {
				return err
			}
			if v, err := decimal.NewFromString(n.String()); err == nil {
				p.Price = decimal.NewNullDecimal(v)
			}
		case "category":
			return readStr(d, &p.Category)
		case "description":
			return readStr(d, &p.Description)
		case "image":
			return readStr(d, &p.Image)
		case "rating":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			r := new(model.Rating)
			if err := decodeRating(d, r); err != nil {
				return err
			}
			p.Rating = r
		default:
			return d.Skip()
		}
		return nil
	})
}

func decodeRating(d *jx.Decoder, r *model.Rating) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "rate":
			n, ok, err := readNum(d)
			if err != nil || !ok {
				return err
			}
			if v, err := n.Float64(); err == nil {
				r.Rate = &v
			}
		case "count":
			n, ok, err := readNum(d)
			if err != nil || !ok {
				return err
			}
			if v, err := n.Int64(); err == nil {
				c := int(v)
				r.Count = &c
			}
		default:
			return d.Skip()
		}
		return nil
	})
}

// readStr stores a JSON string into dst and skips any other value.
func readStr(d *jx.Decoder, dst *string) error {
	if d.Next() != jx.String {
		return d.Skip()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// readNum reads a JSON number. ok is false when the value had another type
// and was skipped.
func readNum(d *jx.Decoder) (n jx.Num, ok bool, err error) {
	if d.Next() != jx.Number {
		return nil, false, d.Skip()
	}
	n, err = d.Num()
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

// get performs a single GET against the products endpoint.
func (c *Client) get(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.log.Debug("shop request", "url", c.productsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading body")
	}

	c.log.Debug("shop response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("HTTP %d: %s", resp.StatusCode, util.Truncate(strings.TrimSpace(string(body)), 200))
	}
	return body, nil
}
