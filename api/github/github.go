package github

import (
	"fmt"
	"strings"

	"github.com/kardolus/playmaker/api/http"
)

const diffMediaType = "application/vnd.github.v3.diff"

// Client retrieves pull-request diffs so a change description can be
// fed to the planner.
type Client struct {
	caller  http.Caller
	baseURL string
	token   string
}

func New(caller http.Caller, baseURL, token string) *Client {
	return &Client{
		caller:  caller,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// FetchDiff returns the unified diff of a pull request.
func (c *Client) FetchDiff(owner, repo string, number int) (string, error) {
	if owner == "" || repo == "" || number <= 0 {
		return "", fmt.Errorf("invalid pull request reference: %s/%s#%d", owner, repo, number)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)

	headers := map[string]string{"Accept": diffMediaType}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}

	body, err := c.caller.Get(url, headers)
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff for %s/%s#%d: %w", owner, repo, number, err)
	}

	return string(body), nil
}

// ParseRef splits an "owner/repo#number" pull-request reference.
func ParseRef(ref string) (owner, repo string, number int, err error) {
	parts := strings.SplitN(ref, "#", 2)
	if len(parts) != 2 {
		return "", "", 0, fmt.Errorf("pull request reference must look like owner/repo#number: %q", ref)
	}

	path := strings.SplitN(parts[0], "/", 2)
	if len(path) != 2 || path[0] == "" || path[1] == "" {
		return "", "", 0, fmt.Errorf("pull request reference must look like owner/repo#number: %q", ref)
	}

	if _, err := fmt.Sscanf(parts[1], "%d", &number); err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid pull request number in %q", ref)
	}

	return path[0], path[1], number, nil
}
