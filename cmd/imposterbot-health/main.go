package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"github.com/bloops-games/imposter/internal/logging"
	"github.com/bloops-games/imposter/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	URL     string        `envconfig:"IMPOSTER_HEALTH_URL" default:"http://localhost:1234/health"`
	Timeout time.Duration `envconfig:"IMPOSTER_HEALTH_TIMEOUT" default:"5s"`
}

type OkResponse struct {
	Status string `json:"status"`
}

// Probe for container health checks, exits non-zero unless the bot reports ok.
func main() {
	ctx, cancel := shutdown.New()
	logger := logging.FromContext(ctx)
	defer cancel()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	status, err := check(ctx, &http.Client{Timeout: config.Timeout}, config.URL)
	if err != nil {
		logger.Errorf("health check: %v", err)
		os.Exit(1)
	}

	_, _ = fmt.Fprintln(os.Stdout, status)
}

func check(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	bytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read all body bytes: %w", err)
	}

	var ok OkResponse
	if err := json.Unmarshal(bytes, &ok); err != nil {
		return "", fmt.Errorf("body unmarshal: %w", err)
	}

	if ok.Status != "ok" {
		return "", fmt.Errorf("unexpected status %q", ok.Status)
	}

	return ok.Status, nil
}
