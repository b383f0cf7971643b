package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rivo/uniseg"

	"github.com/FxEmbed/polyglot/internal/language"
)

const (
	// DefaultBingURL is the public Bing Translator site.
	DefaultBingURL = "https://www.bing.com"
	bingMaxText    = 1000
	bingUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	// Refresh a little before the advertised expiry.
	bingTokenSkew = 30 * time.Second
)

var (
	bingIGPattern     = regexp.MustCompile(`IG:"([^"]+)"`)
	bingIIDPattern    = regexp.MustCompile(`data-iid="([^"]+)"`)
	bingParamsPattern = regexp.MustCompile(`params_AbusePreventionHelper\s*=\s*\[\s*(\d+)\s*,\s*"([^"]+)"\s*,\s*(\d+)\s*]`)
)

// BingProvider uses the keyless Bing Translator web endpoint. Session
// parameters are scraped from the translator page and reused until they expire.
type BingProvider struct {
	providerTraits
	baseURL   string
	disabled  bool
	languages languageSet
	client    *http.Client
	now       func() time.Time

	mu      sync.Mutex
	session *bingSession
}

type bingSession struct {
	ig        string
	iid       string
	key       string
	token     string
	expiresAt time.Time
}

type bingResult struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func NewBingProvider(baseURL string, disabled bool, timeout time.Duration) *BingProvider {
	base := trimBaseURL(baseURL)
	if base == "" {
		base = DefaultBingURL
	}
	client := newHTTPClient(timeout)
	if jar, err := cookiejar.New(nil); err == nil {
		client.Jar = jar
	}
	return &BingProvider{
		providerTraits: providerTraits{name: "bing", free: true, maxText: bingMaxText},
		baseURL:        base,
		disabled:       disabled,
		languages:      staticLanguages("bing"),
		client:         client,
		now:            time.Now,
	}
}

func (p *BingProvider) IsAvailable() bool {
	return !p.disabled
}

func (p *BingProvider) SupportsLanguage(code string) bool {
	return p.languages.has(language.NormalizeTag(code))
}

func (p *BingProvider) Languages() []string {
	return p.languages.sorted()
}

// SupportsText rejects text containing hard line breaks, which the web
// endpoint drops from its output.
func (p *BingProvider) SupportsText(text string) bool {
	state := -1
	rest := text
	for rest != "" {
		var segment string
		segment, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		if uniseg.HasTrailingLineBreakInString(segment) {
			return false
		}
	}
	return true
}

func (p *BingProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	started := time.Now()
	session, err := p.currentSession(ctx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	result, err := p.translateWith(ctx, session, req)
	if err != nil {
		// A rejected token is the usual failure; drop it so the next call rescrapes.
		p.invalidate(session)
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) && result.DetectedLanguage != nil {
		sourceLang = strings.ToLower(result.DetectedLanguage.Language)
	}
	return &TranslateResponse{
		Text:         result.Translations[0].Text,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func (p *BingProvider) translateWith(ctx context.Context, session *bingSession, req TranslateRequest) (*bingResult, error) {
	from := language.Canonical(req.SourceLang)
	if from == "" || language.IsAuto(from) {
		from = "auto-detect"
	}

	form := url.Values{}
	form.Set("fromLang", from)
	form.Set("to", language.Canonical(req.TargetLang))
	form.Set("text", req.Text)
	form.Set("token", session.token)
	form.Set("key", session.key)

	query := url.Values{}
	query.Set("isVertical", "1")
	query.Set("IG", session.ig)
	query.Set("IID", session.iid)
	endpoint := p.baseURL + "/ttranslatev3?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", bingUserAgent)
	httpReq.Header.Set("Referer", p.baseURL+"/translator")

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, err
	}

	var results []bingResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode response: %s", snippet(body))
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return nil, fmt.Errorf("response contained no translation")
	}
	return &results[0], nil
}

func (p *BingProvider) currentSession(ctx context.Context) (*bingSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil && p.now().Before(p.session.expiresAt) {
		return p.session, nil
	}
	session, err := p.fetchSession(ctx)
	if err != nil {
		return nil, err
	}
	p.session = session
	return session, nil
}

func (p *BingProvider) invalidate(session *bingSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == session {
		p.session = nil
	}
}

func (p *BingProvider) fetchSession(ctx context.Context) (*bingSession, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/translator", nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("User-Agent", bingUserAgent)

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, fmt.Errorf("load translator page: %w", err)
	}
	return parseBingSession(string(body), p.now())
}

func parseBingSession(page string, now time.Time) (*bingSession, error) {
	ig := bingIGPattern.FindStringSubmatch(page)
	iid := bingIIDPattern.FindStringSubmatch(page)
	params := bingParamsPattern.FindStringSubmatch(page)
	if ig == nil || iid == nil || params == nil {
		return nil, fmt.Errorf("translator page is missing session parameters")
	}

	lifetimeMs, err := strconv.ParseInt(params[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse token lifetime: %w", err)
	}
	lifetime := time.Duration(lifetimeMs)*time.Millisecond - bingTokenSkew
	if lifetime < 0 {
		lifetime = 0
	}

	return &bingSession{
		ig:        ig[1],
		iid:       iid[1],
		key:       params[1],
		token:     params[2],
		expiresAt: now.Add(lifetime),
	}, nil
}
