package synergy

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/dto"
	"github.com/VWTAlpine/Gradevue2UI-sub000/internal/models"
	"github.com/VWTAlpine/Gradevue2UI-sub000/pkg/config"
	appErrors "github.com/VWTAlpine/Gradevue2UI-sub000/pkg/errors"
)

const (
	servicePath = "/Service/PXPCommunication.asmx"
	soapAction  = "http://edupoint.com/webservices/ProcessWebServiceRequest"

	methodGradebook   = "Gradebook"
	methodStudentInfo = "StudentInfo"
)

// The district endpoint speaks a single generic SOAP operation; the real
// request is named in methodName and parameterized through an escaped
// inner XML string.
const envelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ProcessWebServiceRequest xmlns="http://edupoint.com/webservices/">
      <userID>%s</userID>
      <password>%s</password>
      <skipLoginLog>true</skipLoginLog>
      <parent>false</parent>
      <webServiceHandleName>PXPWebServices</webServiceHandleName>
      <methodName>%s</methodName>
      <paramStr>%s</paramStr>
    </ProcessWebServiceRequest>
  </soap:Body>
</soap:Envelope>`

type soapResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Result  string   `xml:"Body>ProcessWebServiceRequestResponse>ProcessWebServiceRequestResult"`
}

type rtError struct {
	ErrorMessage string `xml:"ERROR_MESSAGE,attr"`
}

// Client talks to a district StudentVue (Synergy) endpoint. Every call is
// bounded by the configured timeout; a timeout surfaces as a distinct
// user-visible error rather than a generic failure.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// NewClient constructs a Synergy client.
func NewClient(cfg config.SynergyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

// Gradebook fetches the raw gradebook, optionally for a specific
// reporting period index.
func (c *Client) Gradebook(ctx context.Context, creds models.Credentials, reportPeriod *int) (*dto.Gradebook, error) {
	params := "<Parms><ChildIntID>0</ChildIntID></Parms>"
	if reportPeriod != nil {
		params = fmt.Sprintf("<Parms><ChildIntID>0</ChildIntID><ReportPeriod>%d</ReportPeriod></Parms>", *reportPeriod)
	}
	payload, err := c.request(ctx, creds, methodGradebook, params)
	if err != nil {
		return nil, err
	}
	gradebook := &dto.Gradebook{}
	if err := xml.Unmarshal(payload, gradebook); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "malformed gradebook response")
	}
	return gradebook, nil
}

// StudentInfo fetches the raw student profile.
func (c *Client) StudentInfo(ctx context.Context, creds models.Credentials) (*dto.StudentInfo, error) {
	payload, err := c.request(ctx, creds, methodStudentInfo, "<Parms><ChildIntID>0</ChildIntID></Parms>")
	if err != nil {
		return nil, err
	}
	info := &dto.StudentInfo{}
	if err := xml.Unmarshal(payload, info); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "malformed student info response")
	}
	return info, nil
}

func (c *Client) request(ctx context.Context, creds models.Credentials, method, params string) ([]byte, error) {
	endpoint := strings.TrimRight(creds.DistrictURL, "/") + servicePath
	body := fmt.Sprintf(envelopeTemplate,
		escapeXML(creds.Username),
		escapeXML(creds.Password),
		method,
		escapeXML(params),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid district URL")
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapAction)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstreamTimeout.Code, appErrors.ErrUpstreamTimeout.Status, appErrors.ErrUpstreamTimeout.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "district request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("synergy request rejected",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("district returned HTTP %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to read district response")
	}

	var envelope soapResponse
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "malformed SOAP envelope")
	}

	inner := []byte(envelope.Result)
	if name, ok := rootElement(inner); ok && name == "RT_ERROR" {
		var rt rtError
		_ = xml.Unmarshal(inner, &rt)
		return nil, mapUpstreamError(rt.ErrorMessage)
	}
	return inner, nil
}

// mapUpstreamError classifies RT_ERROR payloads. Credential rejections are
// passed through near-verbatim so the user sees what the district said.
func mapUpstreamError(message string) error {
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "password") || strings.Contains(lowered, "user name") || strings.Contains(lowered, "invalid user") {
		return appErrors.Clone(appErrors.ErrUpstreamAuth, strings.TrimSpace(message))
	}
	return appErrors.Clone(appErrors.ErrUpstreamUnavailable, strings.TrimSpace(message))
}

func rootElement(payload []byte) (string, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", false
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, true
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func escapeXML(raw string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(raw))
	return buf.String()
}
