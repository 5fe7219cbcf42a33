package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sweeney/humidistat/internal/logic"
)

const (
	pathDevice   = "/api/v1/health-dehumidifier/get-dehumidifier"
	pathRoutines = "/api/v1/routine-monitoring/data-records/iot-device/"
	pathReadings = "/api/v1/health-dehumidifier/data-records"

	headerAPIKey = "X-API-Key"

	maxBody = 1 << 20
)

// HTTPClient implements Client over plain HTTP.
type HTTPClient struct {
	base     string
	deviceID string
	apiKey   string
	http     *http.Client
}

// NewHTTPClient creates a client for the service at base (http://host:port).
// A nil httpClient uses http.DefaultClient.
func NewHTTPClient(base, deviceID, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{base: base, deviceID: deviceID, apiKey: apiKey, http: httpClient}
}

type deviceResponse struct {
	Info *struct {
		ICAMin  int     `json:"calidadDeAireMin"`
		ICAMax  int     `json:"calidadDeAireMax"`
		TempMin float64 `json:"temperaturaMin"`
		TempMax float64 `json:"temperaturaMax"`
		HumMin  float64 `json:"humedadMin"`
		HumMax  float64 `json:"humedadMax"`
		Estado  bool    `json:"estado"`
	} `json:"humidifier_info"`
}

// FetchDevice returns the device's safety bounds and manual intent.
func (c *HTTPClient) FetchDevice(ctx context.Context) (DeviceConfig, error) {
	u := c.base + pathDevice + "?" + url.Values{"device_id": {c.deviceID}}.Encode()

	body, err := c.do(ctx, OpFetchDevice, http.MethodGet, u, nil)
	if err != nil {
		return DeviceConfig{}, err
	}

	var resp deviceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return DeviceConfig{}, fmt.Errorf("%s: %w: %v", OpFetchDevice, ErrMalformed, err)
	}
	if resp.Info == nil {
		return DeviceConfig{}, fmt.Errorf("%s: %w: no humidifier_info", OpFetchDevice, ErrMalformed)
	}

	i := resp.Info
	return DeviceConfig{
		Bounds: logic.SafetyBounds{
			TempMin: i.TempMin,
			TempMax: i.TempMax,
			HumMin:  i.HumMin,
			HumMax:  i.HumMax,
			ICAMin:  i.ICAMin,
			ICAMax:  i.ICAMax,
		},
		ManualOn: i.Estado,
	}, nil
}

type routineEntry struct {
	Data string `json:"routine_data"`
}

// FetchRoutines returns the raw routine records in service order. Entries
// without routine_data come back as empty strings.
func (c *HTTPClient) FetchRoutines(ctx context.Context) ([]string, error) {
	u := c.base + pathRoutines + url.PathEscape(c.deviceID)

	body, err := c.do(ctx, OpFetchRoutines, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var entries []routineEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", OpFetchRoutines, ErrMalformed, err)
	}

	records := make([]string, len(entries))
	for i, e := range entries {
		records[i] = e.Data
	}
	return records, nil
}

type readingRequest struct {
	DeviceID string `json:"device_id"`
	Info     string `json:"humidifier_info"`
}

// PostReading uploads one sample. The service expects the measurement as
// a JSON document embedded in a string field.
func (c *HTTPClient) PostReading(ctx context.Context, r logic.Reading, ica int) error {
	info := `{"temperature":` + strconv.FormatFloat(r.Temperature, 'f', 1, 64) +
		`,"humidity":` + strconv.FormatFloat(r.Humidity, 'f', 1, 64) +
		`,"ICA":` + strconv.Itoa(ica) + `}`

	payload, err := json.Marshal(readingRequest{DeviceID: c.deviceID, Info: info})
	if err != nil {
		return fmt.Errorf("%s: encode: %w", OpPostReading, err)
	}

	_, err = c.do(ctx, OpPostReading, http.MethodPost, c.base+pathReadings, payload)
	return err
}

func (c *HTTPClient) do(ctx context.Context, op, method, u string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: op, Status: resp.StatusCode}
	}
	return data, nil
}
