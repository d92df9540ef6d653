//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeRequest struct {
	// Input is blueprint text or a JSON blueprint document.
	Input string `json:"input"`
	// Mode is "quality" (default), "product" or "solve".
	Mode    string `json:"mode"`
	Minutes int    `json:"minutes"`
}

type optimizeResponse struct {
	Mode    string            `json:"mode"`
	Answer  int               `json:"answer"`
	Results []BlueprintResult `json:"results"`
}

var lambdaLogger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req optimizeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if req.Input == "" {
		return errResp(400, "missing input field")
	}
	if req.Minutes < 0 || req.Minutes > 64 {
		return errResp(400, "minutes out of range")
	}

	bps, err := loadFromStrings(req.Input)
	if err != nil {
		return errResp(400, err.Error())
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return errResp(500, err.Error())
	}
	runner := NewRunner(cfg, lambdaLogger, nil)

	var (
		answer  int
		results []Result
	)
	switch req.Mode {
	case "", "quality":
		req.Mode = "quality"
		if req.Minutes > 0 {
			runner.cfg.Quality.Minutes = req.Minutes
		}
		answer, results, err = runner.Quality(ctx, bps)
	case "product":
		if req.Minutes > 0 {
			runner.cfg.Product.Minutes = req.Minutes
		}
		answer, results, err = runner.Product(ctx, bps)
	case "solve":
		minutes := req.Minutes
		if minutes == 0 {
			minutes = cfg.Quality.Minutes
		}
		results, err = runner.Solve(ctx, bps, minutes)
		answer = TotalQuality(results)
	default:
		return errResp(400, "unknown mode "+req.Mode)
	}
	if err != nil {
		return errResp(500, err.Error())
	}

	resp := optimizeResponse{Mode: req.Mode, Answer: answer}
	for _, r := range results {
		resp.Results = append(resp.Results, toBlueprintResult(r))
	}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
