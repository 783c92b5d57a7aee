package caldav

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	requestTimeout  = 30 * time.Second
	retryMaxElapsed = 15 * time.Second

	davTimeLayout = "20060102T150405Z"
)

// ErrServiceUnavailable marks a transient CalDAV outage. Runs that hit
// it are simply retried on the next scheduled invocation.
var ErrServiceUnavailable = errors.New("caldav service unavailable")

// Config holds the connection settings for the outage calendar.
type Config struct {
	// URL is the CalDAV server root, e.g. https://caldav.icloud.com/.
	URL      string
	Username string
	Password string
	// CalendarName is the display name of the calendar to sync into.
	CalendarName string
	// EventPrefix starts every event title this client creates; it is
	// also how the client recognizes its own events when clearing a day.
	EventPrefix string
}

// Client is a minimal CalDAV client bound to one named calendar.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarName string
	eventPrefix  string
	httpClient   *http.Client
	log          *zap.Logger
	newRetry     func() backoff.BackOff

	mu          sync.Mutex
	calendarURL string
}

// New validates the configuration and returns a client. The calendar
// itself is looked up lazily on first use.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("caldav url is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("caldav credentials are required")
	}
	if cfg.CalendarName == "" {
		return nil, errors.New("caldav calendar name is required")
	}

	return &Client{
		baseURL:      strings.TrimSpace(cfg.URL),
		username:     cfg.Username,
		password:     cfg.Password,
		calendarName: cfg.CalendarName,
		eventPrefix:  cfg.EventPrefix,
		httpClient:   &http.Client{Timeout: requestTimeout},
		log:          log,
		newRetry: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = retryMaxElapsed
			return bo
		},
	}, nil
}

// Multistatus responses carry DAV: and caldav-namespace elements;
// matching on local names keeps the decoding server-agnostic.
type multistatus struct {
	XMLName   xml.Name      `xml:"multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string        `xml:"href"`
	Propstats []davPropstat `xml:"propstat"`
}

type davPropstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	CurrentUserPrincipal *davHref         `xml:"current-user-principal"`
	CalendarHomeSet      *davHref         `xml:"calendar-home-set"`
	DisplayName          string           `xml:"displayname"`
	ResourceType         *davResourceType `xml:"resourcetype"`
	CalendarData         string           `xml:"calendar-data"`
}

type davHref struct {
	Href string `xml:"href"`
}

type davResourceType struct {
	Calendar *struct{} `xml:"calendar"`
}

const (
	propfindCurrentUserPrincipal = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:"><d:prop><d:current-user-principal/></d:prop></d:propfind>`

	propfindCalendarHomeSet = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav"><d:prop><c:calendar-home-set/></d:prop></d:propfind>`

	propfindCalendars = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:"><d:prop><d:displayname/><d:resourcetype/></d:prop></d:propfind>`

	calendarQueryTemplate = `<?xml version="1.0" encoding="utf-8"?>
<c:calendar-query xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop><d:getetag/><c:calendar-data/></d:prop>
  <c:filter>
    <c:comp-filter name="VCALENDAR">
      <c:comp-filter name="VEVENT">
        <c:time-range start="%s" end="%s"/>
      </c:comp-filter>
    </c:comp-filter>
  </c:filter>
</c:calendar-query>`
)

// calendarCollection resolves and caches the collection URL of the
// configured calendar: server root to principal, principal to calendar
// home, then a Depth:1 listing matched by display name.
func (c *Client) calendarCollection(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calendarURL != "" {
		return c.calendarURL, nil
	}

	principal, err := c.principalURL(ctx)
	if err != nil {
		return "", err
	}
	home, err := c.homeSetURL(ctx, principal)
	if err != nil {
		return "", err
	}

	ms, err := c.propfind(ctx, home, "1", propfindCalendars)
	if err != nil {
		return "", fmt.Errorf("listing calendars: %w", err)
	}
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstats {
			if ps.Prop.ResourceType == nil || ps.Prop.ResourceType.Calendar == nil {
				continue
			}
			if ps.Prop.DisplayName != c.calendarName {
				continue
			}
			col, err := c.resolve(resp.Href)
			if err != nil {
				return "", err
			}
			c.calendarURL = col
			c.log.Debug("resolved outage calendar", zap.String("calendar", c.calendarName), zap.String("url", col))
			return col, nil
		}
	}
	return "", fmt.Errorf("calendar %q not found on server", c.calendarName)
}

func (c *Client) principalURL(ctx context.Context) (string, error) {
	ms, err := c.propfind(ctx, c.baseURL, "0", propfindCurrentUserPrincipal)
	if err != nil {
		return "", fmt.Errorf("discovering principal: %w", err)
	}
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstats {
			if ps.Prop.CurrentUserPrincipal != nil && ps.Prop.CurrentUserPrincipal.Href != "" {
				return c.resolve(ps.Prop.CurrentUserPrincipal.Href)
			}
		}
	}
	return "", errors.New("server did not report a current-user-principal")
}

func (c *Client) homeSetURL(ctx context.Context, principal string) (string, error) {
	ms, err := c.propfind(ctx, principal, "0", propfindCalendarHomeSet)
	if err != nil {
		return "", fmt.Errorf("discovering calendar home: %w", err)
	}
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstats {
			if ps.Prop.CalendarHomeSet != nil && ps.Prop.CalendarHomeSet.Href != "" {
				return c.resolve(ps.Prop.CalendarHomeSet.Href)
			}
		}
	}
	return "", errors.New("server did not report a calendar-home-set")
}

// storedObject is one calendar object returned by a time-range query.
type storedObject struct {
	Href string
	Data string
}

func (c *Client) queryEvents(ctx context.Context, calURL string, from, to time.Time) ([]storedObject, error) {
	body := fmt.Sprintf(calendarQueryTemplate,
		from.UTC().Format(davTimeLayout), to.UTC().Format(davTimeLayout))

	data, err := c.roundTrip(ctx, "REPORT", calURL, map[string]string{
		"Depth":        "1",
		"Content-Type": `application/xml; charset="utf-8"`,
	}, body)
	if err != nil {
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("parsing calendar query response: %w", err)
	}

	var objects []storedObject
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstats {
			if ps.Prop.CalendarData == "" {
				continue
			}
			objects = append(objects, storedObject{Href: resp.Href, Data: ps.Prop.CalendarData})
			break
		}
	}
	return objects, nil
}

func (c *Client) propfind(ctx context.Context, target, depth, body string) (*multistatus, error) {
	data, err := c.roundTrip(ctx, "PROPFIND", target, map[string]string{
		"Depth":        depth,
		"Content-Type": `application/xml; charset="utf-8"`,
	}, body)
	if err != nil {
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("parsing multistatus response: %w", err)
	}
	return &ms, nil
}

func (c *Client) putObject(ctx context.Context, target, payload string) error {
	_, err := c.roundTrip(ctx, http.MethodPut, target, map[string]string{
		"Content-Type": "text/calendar; charset=utf-8",
	}, payload)
	return err
}

func (c *Client) deleteObject(ctx context.Context, target string) error {
	_, err := c.roundTrip(ctx, http.MethodDelete, target, nil, "")
	return err
}

// roundTrip performs one authenticated CalDAV request. Network failures
// and 503 responses are retried with exponential backoff; anything else
// above 399 fails immediately.
func (c *Client) roundTrip(ctx context.Context, method, target string, headers map[string]string, body string) ([]byte, error) {
	var data []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating %s request: %w", method, err))
		}
		req.SetBasicAuth(c.username, c.password)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, target, err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading %s response: %w", method, err)
		}

		switch {
		case resp.StatusCode == http.StatusServiceUnavailable:
			return fmt.Errorf("%s %s: %w", method, target, ErrServiceUnavailable)
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("caldav authorization failed (status %d)", resp.StatusCode))
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("%s %s: unexpected status %d: %s",
				method, target, resp.StatusCode, strings.TrimSpace(string(payload))))
		}

		data = payload
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.newRetry(), ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

// resolve turns a server-relative href into an absolute URL on the
// configured server.
func (c *Client) resolve(href string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing caldav url: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
