package http

import (
	"fmt"
	"io"
	"net/http"
)

const (
	errFailedToRead          = "failed to read response: %w"
	errFailedToCreateRequest = "failed to create request: %w"
	errFailedToMakeRequest   = "failed to make request: %w"
	errHTTPStatus            = "http status: %d"
)

type Caller interface {
	Get(url string, headers map[string]string) ([]byte, error)
}

// Ensure RestCaller implements Caller interface
var _ Caller = &RestCaller{}

type RestCaller struct {
	client *http.Client
}

func New() *RestCaller {
	return &RestCaller{client: &http.Client{}}
}

func (r *RestCaller) Get(url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(errFailedToCreateRequest, err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errFailedToMakeRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(errHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errFailedToRead, err)
	}

	return body, nil
}
