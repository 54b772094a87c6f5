package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// depthPayload は深度推定APIへ送るリクエストボディです。
type depthPayload struct {
	ImageB64 string  `json:"image_b64"`
	Mime     string  `json:"mime,omitempty"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
}

// HTTPDepthAdapter は HTTP 経由で深度推定サービスを呼び出す DepthAdapter の
// 標準実装です。応答はグレースケール画像（PNG）として解釈します。
type HTTPDepthAdapter struct {
	client   HTTPDoer
	endpoint string
	apiKey   string
	cache    *cache.Cache
	limiter  *rate.Limiter
	cacheTTL time.Duration
}

// NewHTTPDepthAdapter は HTTPDepthAdapter を生成します。
func NewHTTPDepthAdapter(client HTTPDoer, endpoint, apiKey string, c *cache.Cache, cacheTTL time.Duration, limiter *rate.Limiter) (*HTTPDepthAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("深度推定サービスのエンドポイントが未設定です")
	}
	return &HTTPDepthAdapter{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		cache:    c,
		cacheTTL: cacheTTL,
		limiter:  limiter,
	}, nil
}

// EstimateDepth はポートレート画像を深度推定サービスへ送り、深度マップを取得します。
func (a *HTTPDepthAdapter) EstimateDepth(ctx context.Context, req DepthRequest) (*domain.DepthResult, error) {
	key := cacheKey("depth", req.Image, req.Config)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			return v.(*domain.DepthResult), nil
		}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload := depthPayload{
		ImageB64: base64.StdEncoding.EncodeToString(req.Image),
		Mime:     req.MimeType,
		Near:     req.Config.DepthNear,
		Far:      req.Config.DepthFar,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("リクエストの生成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/png")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("深度推定サービスがエラーを返しました (status=%d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	depth, err := domain.ParseDepthResult(body)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Set(key, depth, a.cacheTTL)
	}
	return depth, nil
}
