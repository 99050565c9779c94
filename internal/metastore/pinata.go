package metastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultPinataBaseURL is the public Pinata pinning API.
const DefaultPinataBaseURL = "https://api.pinata.cloud"

// PinataClient implements Store against the Pinata pinning API with a
// bearer JWT.
type PinataClient struct {
	baseURL string
	jwt     string
	client  *http.Client
}

// PinataOption configures PinataClient.
type PinataOption func(*PinataClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) PinataOption {
	return func(c *PinataClient) {
		c.baseURL = url
	}
}

// WithPinataHTTPClient sets a custom http.Client.
func WithPinataHTTPClient(client *http.Client) PinataOption {
	return func(c *PinataClient) {
		c.client = client
	}
}

// NewPinataClient creates a pinning client authenticated by jwt.
func NewPinataClient(jwt string, opts ...PinataOption) *PinataClient {
	c := &PinataClient{
		baseURL: DefaultPinataBaseURL,
		jwt:     jwt,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pinResponse is the common shape of Pinata pin endpoints.
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinBlob pins raw bytes via pinFileToIPFS and returns ipfs://CID.
func (c *PinataClient) PinBlob(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	return c.do(req)
}

// PinJSON pins the JSON encoding of v via pinJSONToIPFS and returns
// ipfs://CID.
func (c *PinataClient) PinJSON(ctx context.Context, v interface{}) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"pinataContent": v})
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	return c.do(req)
}

func (c *PinataClient) do(req *http.Request) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pin failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result pinResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("empty IpfsHash in response")
	}

	return "ipfs://" + result.IpfsHash, nil
}

var _ Store = (*PinataClient)(nil)
