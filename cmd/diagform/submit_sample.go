package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

//go:embed testdata/sample_submission.json
var sampleSubmission []byte

var submitSampleURL string

var submitSampleCmd = &cobra.Command{
	Use:   "submit-sample",
	Short: "POST a sample diagnostic to a running server",
	RunE:  runSubmitSample,
}

func init() {
	submitSampleCmd.Flags().StringVar(&submitSampleURL, "url", "http://localhost:3000/submit", "Submission endpoint")
	rootCmd.AddCommand(submitSampleCmd)
}

func runSubmitSample(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	status, body, err := postJSON(ctx, submitSampleURL, sampleSubmission)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server answered %d: %s", status, body)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", body)
	return nil
}

func postJSON(ctx context.Context, url string, payload []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, string(bytes.TrimSpace(body)), nil
}
