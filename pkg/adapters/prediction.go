package adapters

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// predictPayload はランドマーク推論APIへ送るリクエストボディです。
type predictPayload struct {
	ImageB64 string   `json:"image_b64"`
	Mime     string   `json:"mime,omitempty"`
	Overlays []string `json:"overlays,omitempty"`
}

// HTTPPredictionAdapter は HTTP 経由でランドマーク/可視化サービスを呼び出す
// PredictionAdapter の標準実装です。同一画像・同一設定の応答は TTL 付きで
// キャッシュし、外向きの呼び出しは共有レートリミッターに従います。
type HTTPPredictionAdapter struct {
	client   HTTPDoer
	endpoint string
	apiKey   string
	cache    *cache.Cache
	limiter  *rate.Limiter
	cacheTTL time.Duration
}

// NewHTTPPredictionAdapter は HTTPPredictionAdapter を生成します。
// cache と limiter は nil でもよく、その場合は素通しで毎回呼び出します。
func NewHTTPPredictionAdapter(client HTTPDoer, endpoint, apiKey string, c *cache.Cache, cacheTTL time.Duration, limiter *rate.Limiter) (*HTTPPredictionAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("ランドマークサービスのエンドポイントが未設定です")
	}
	return &HTTPPredictionAdapter{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		cache:    c,
		cacheTTL: cacheTTL,
		limiter:  limiter,
	}, nil
}

// Predict はポートレート画像を推論サービスへ送り、可視化バンドルを取得します。
// サービス側の失敗には手を加えず、そのまま返します。
func (a *HTTPPredictionAdapter) Predict(ctx context.Context, req PredictionRequest) (*domain.VisualizationBundle, error) {
	key := cacheKey("predict", req.Image, req.Config)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			return v.(*domain.VisualizationBundle), nil
		}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload := predictPayload{
		ImageB64: base64.StdEncoding.EncodeToString(req.Image),
		Mime:     req.MimeType,
		Overlays: req.Config.Overlays,
	}
	body, err := a.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	bundle, err := domain.ParseVisualizationBundle(body)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Set(key, bundle, a.cacheTTL)
	}
	return bundle, nil
}

func (a *HTTPPredictionAdapter) post(ctx context.Context, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("リクエストの生成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
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
		return nil, fmt.Errorf("推論サービスがエラーを返しました (status=%d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// cacheKey は画像バイト列のダイジェストと設定のフィンガープリントから
// キャッシュキーを合成します。
func cacheKey(kind string, image []byte, cfg domain.MeshConfig) string {
	sum := sha256.Sum256(image)
	return kind + ":" + hex.EncodeToString(sum[:]) + ":" + cfg.Fingerprint()
}
