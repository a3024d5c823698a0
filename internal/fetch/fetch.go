// Package fetch provides the HTTP GET capability used to download repo
// files and compose manifests.
package fetch

import (
	"fmt"
	"io"
	"net/http"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/ospdev/yumconf/internal/models"
)

// Getter fetches a document over HTTP.
type Getter interface {
	Get(url string) ([]byte, error)
}

// Client implements Getter with retries.
type Client struct {
	rc *retryablehttp.Client
}

// NewClient creates a Client that logs retries through the given logger.
func NewClient(logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = newLeveledLogger(logger)
	return &Client{rc: rc}
}

// Get downloads url and returns the response body. Any transport failure or
// non-200 status is reported as a UrlError.
func (c *Client) Get(url string) ([]byte, error) {
	resp, err := c.rc.Get(url)
	if err != nil {
		return nil, models.WrapError(models.ErrURL, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.WrapError(models.ErrURL, url,
			fmt.Errorf("unexpected response status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.WrapError(models.ErrURL, url, err)
	}
	return body, nil
}
