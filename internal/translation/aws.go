package translation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/FxEmbed/polyglot/internal/language"
)

const (
	awsService    = "translate"
	awsTarget     = "AWSShineFrontendService_20170701.TranslateText"
	awsJSONHeader = "application/x-amz-json-1.1"
)

// AWSCredentials are static IAM credentials. SessionToken is optional.
type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// AWSProvider calls Amazon Translate's TranslateText action with SigV4 signed requests.
type AWSProvider struct {
	providerTraits
	creds     AWSCredentials
	region    string
	endpoint  string
	languages languageSet
	client    *http.Client
	signer    *v4.Signer
	now       func() time.Time
}

type awsTranslateRequest struct {
	Text               string `json:"Text"`
	SourceLanguageCode string `json:"SourceLanguageCode"`
	TargetLanguageCode string `json:"TargetLanguageCode"`
}

type awsTranslateResponse struct {
	TranslatedText     string `json:"TranslatedText"`
	SourceLanguageCode string `json:"SourceLanguageCode"`
	TargetLanguageCode string `json:"TargetLanguageCode"`
}

type awsErrorResponse struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// NewAWSProvider builds the adapter. endpoint overrides the regional
// https://translate.<region>.amazonaws.com host.
func NewAWSProvider(creds AWSCredentials, region, endpoint string, timeout time.Duration) *AWSProvider {
	region = strings.TrimSpace(region)
	if region == "" {
		region = "us-east-1"
	}
	base := trimBaseURL(endpoint)
	if base == "" {
		base = "https://translate." + region + ".amazonaws.com"
	}
	creds.AccessKeyID = strings.TrimSpace(creds.AccessKeyID)
	creds.SecretAccessKey = strings.TrimSpace(creds.SecretAccessKey)
	creds.SessionToken = strings.TrimSpace(creds.SessionToken)
	return &AWSProvider{
		providerTraits: providerTraits{name: "aws", free: false, maxText: NoTextLimit},
		creds:          creds,
		region:         region,
		endpoint:       base,
		languages:      staticLanguages("aws"),
		client:         newHTTPClient(timeout),
		signer:         v4.NewSigner(),
		now:            time.Now,
	}
}

func (p *AWSProvider) IsAvailable() bool {
	return p.creds.AccessKeyID != "" && p.creds.SecretAccessKey != ""
}

func (p *AWSProvider) SupportsLanguage(code string) bool {
	tag := language.NormalizeTag(code)
	if tag == "zh-cn" {
		return true
	}
	return p.languages.has(tag)
}

func (p *AWSProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *AWSProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if !p.IsAvailable() {
		return nil, providerErrorf(p.Name(), "credentials are not configured")
	}

	source := awsLangCode(req.SourceLang)
	if source == "" {
		source = "auto"
	}
	payload, err := json.Marshal(awsTranslateRequest{
		Text:               req.Text,
		SourceLanguageCode: source,
		TargetLanguageCode: awsLangCode(req.TargetLang),
	})
	if err != nil {
		return nil, providerErrorf(p.Name(), "encode request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/", bytes.NewReader(payload))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", awsJSONHeader)
	httpReq.Header.Set("X-Amz-Target", awsTarget)
	if err := signAWSRequest(ctx, p.signer, httpReq, payload, p.creds, p.region, awsService, p.now().UTC()); err != nil {
		return nil, providerErrorf(p.Name(), "sign request: %w", err)
	}

	body, resp, err := doAndRead(p.client, httpReq)
	if err != nil {
		if resp != nil && len(body) > 0 {
			var apiErr awsErrorResponse
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
				return nil, providerErrorf(p.Name(), "status %d: %s: %s", resp.StatusCode, apiErr.Type, apiErr.Message)
			}
		}
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var decoded awsTranslateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) {
		sourceLang = strings.ToLower(decoded.SourceLanguageCode)
	}
	return &TranslateResponse{
		Text:         decoded.TranslatedText,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// awsLangCode maps tags onto Amazon Translate codes. Simplified Chinese is "zh".
func awsLangCode(raw string) string {
	tag := language.NormalizeTag(raw)
	if tag == "zh-cn" || tag == "zh-hans" {
		return "zh"
	}
	return language.Canonical(tag)
}

// signAWSRequest adds Signature Version 4 headers to req. payload must be the
// exact request body.
func signAWSRequest(ctx context.Context, signer *v4.Signer, req *http.Request, payload []byte, creds AWSCredentials, region, service string, now time.Time) error {
	if req.URL == nil {
		return fmt.Errorf("request URL is required")
	}
	req.Host = req.URL.Host

	sum := sha256.Sum256(payload)
	return signer.SignHTTP(ctx, aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	}, req, hex.EncodeToString(sum[:]), service, region, now)
}
