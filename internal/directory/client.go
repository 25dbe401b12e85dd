package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tartampluch/hermandad/internal/config"
)

// Directory is the remote member collection as seen by the screens.
type Directory interface {
	CreateUser(ctx context.Context, form Form) (UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
}

// Client implements Directory over JSON/HTTP. It never retries.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient validates baseURL and configures the HTTP client with JSON headers.
func NewClient(baseURL string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New(config.ErrBaseURLEmpty)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(config.HTTPTimeout).
		SetHeader(config.HeaderAccept, config.MimeJSON).
		SetHeader(config.HeaderContentType, config.MimeJSON).
		SetHeader(config.HeaderUserAgent, config.UserAgent).
		SetResponseBodyLimit(config.MaxHTTPResponseSize)

	return &Client{http: rc, baseURL: base}, nil
}

// Dial is NewClient behind the Directory interface.
func Dial(baseURL string) (Directory, error) {
	c, err := NewClient(baseURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the normalized endpoint prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// CreateUser validates form and, when valid, posts it to /usuarios.
// A *ValidationError means nothing was sent.
func (c *Client) CreateUser(ctx context.Context, form Form) (UserRecord, error) {
	body, err := form.payload()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			slog.Debug(config.MsgValidationFail,
				config.LogKeyComponent, config.CompDirectory,
				config.LogKeyFields, ve.Error())
		}
		return UserRecord{}, err
	}

	const op = "create"

	// The acknowledgement shape is server defined; whatever it omits keeps
	// the value that was sent.
	created := UserRecord{
		Name:     body.Name,
		Lastname: body.Lastname,
		Email:    body.Email,
		Birthday: body.Birthday,
		Sex:      body.Sex,
		Photo:    body.Photo,
		Phone:    body.Phone,
		Age:      body.Age,
		Address:  body.Address,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		ForceContentType(config.MimeJSON).
		Post(config.RouteUsers)
	if err := c.check(op, resp, err); err != nil {
		if !errors.Is(err, errDecode) {
			return UserRecord{}, err
		}
		// The user exists remotely; an unreadable acknowledgement is not a failure.
		slog.Debug(config.ErrResponseDecode,
			config.LogKeyComponent, config.CompDirectory,
			config.LogKeyError, err)
	}

	slog.Info(config.MsgUserCreated,
		config.LogKeyComponent, config.CompDirectory,
		config.LogKeyID, created.ID)
	return created, nil
}

// ListUsers fetches the whole collection in server order.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	const op = "list"
	started := time.Now()

	users := make([]UserRecord, 0)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&users).
		ForceContentType(config.MimeJSON).
		Get(config.RouteUsers)
	if err := c.check(op, resp, err); err != nil {
		return nil, err
	}

	slog.Info(config.MsgUsersLoaded,
		config.LogKeyComponent, config.CompDirectory,
		config.LogKeyCount, len(users),
		config.LogKeyDuration, time.Since(started).Milliseconds())
	return users, nil
}

// errDecode marks a 2xx answer whose JSON body did not fit the result type.
var errDecode = errors.New(config.ErrResponseDecode)

// check maps a resty outcome onto the package's error types.
//
// resty reports three different things through err: no response at all
// (TransportError), a body cut at the size limit (TooLargeError) and a 2xx
// body that failed to unmarshal into SetResult's target (errDecode).
func (c *Client) check(op string, resp *resty.Response, err error) error {
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompDirectory),
		slog.String(config.LogKeyURL, c.baseURL+config.RouteUsers),
	)

	switch {
	case errors.Is(err, resty.ErrResponseBodyTooLarge):
		log.Warn(config.ErrResponseSize, slog.Int(config.LogKeyLimit, config.MaxHTTPResponseSize))
		return &TooLargeError{Op: op, Limit: config.MaxHTTPResponseSize, Err: err}
	case err != nil && resp != nil && resp.RawResponse != nil && resp.IsSuccess():
		log.Warn(config.ErrResponseDecode, config.LogKeyError, err)
		return fmt.Errorf("%w: %w", errDecode, err)
	case err != nil:
		log.Warn(config.ErrTransport, config.LogKeyError, err)
		return &TransportError{Op: op, Err: err}
	case !resp.IsSuccess():
		log.Warn(config.ErrServerStatus, slog.Int(config.LogKeyStatus, resp.StatusCode()))
		body := resp.String()
		if len(body) > config.MaxErrorBodyLog {
			body = body[:config.MaxErrorBodyLog]
		}
		return &ServerError{Op: op, StatusCode: resp.StatusCode(), Body: body}
	}
	return nil
}
