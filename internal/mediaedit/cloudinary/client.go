package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Client calls the Cloudinary upload API with signed requests. Background
// removal happens as an incoming transformation at upload time; object
// removal uploads the original and builds a delivery URL carrying the
// generative remove effect.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	uploadBase string
	deliverURL string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient constructs a Cloudinary client from account credentials.
func NewClient(cloudName, apiKey, apiSecret string) (*Client, error) {
	if strings.TrimSpace(cloudName) == "" || strings.TrimSpace(apiKey) == "" || strings.TrimSpace(apiSecret) == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	return &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		uploadBase: "https://api.cloudinary.com/v1_1",
		deliverURL: "https://res.cloudinary.com",
		httpClient: &http.Client{Timeout: 120 * time.Second},
		now:        time.Now,
	}, nil
}

// WithUploadBase overrides the upload API base URL, used by tests.
func (c *Client) WithUploadBase(base string) *Client {
	c.uploadBase = base
	return c
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RemoveBackground uploads the image with the background_removal effect and
// returns the hosted URL of the transformed asset.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) (string, error) {
	res, err := c.upload(ctx, image, map[string]string{
		"transformation": "e_background_removal",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

// RemoveObject uploads the original image and returns a delivery URL that
// applies the generative remove effect for the named object.
func (c *Client) RemoveObject(ctx context.Context, image []byte, object string) (string, error) {
	res, err := c.upload(ctx, image, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/image/upload/e_gen_remove:%s/%s",
		c.deliverURL, c.cloudName, object, res.PublicID), nil
}

func (c *Client) upload(ctx context.Context, image []byte, params map[string]string) (*uploadResult, error) {
	timestamp := fmt.Sprintf("%d", c.now().Unix())

	signed := map[string]string{"timestamp": timestamp}
	for k, v := range params {
		signed[k] = v
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range signed {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, err
	}
	if err := writer.WriteField("signature", c.sign(signed)); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", "upload")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.uploadBase, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed uploadResult
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("cloudinary status %d: unreadable response", resp.StatusCode)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("cloudinary: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary status %d", resp.StatusCode)
	}
	if parsed.SecureURL == "" && parsed.PublicID == "" {
		return nil, fmt.Errorf("cloudinary returned no asset reference")
	}
	return &parsed, nil
}

// sign computes the upload signature: sha1 over the sorted signed params
// joined with & followed by the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
