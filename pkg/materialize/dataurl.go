package materialize

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL はバイト列を data: URL 形式の埋め込み表現へ変換します。
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL は data: URL から MIME タイプと生のバイト列を取り出します。
func DecodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, fmt.Errorf("data: URL ではありません")
	}
	rest := strings.TrimPrefix(s, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data: URL の形式が不正です")
	}
	mime := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("base64のデコードに失敗しました: %w", err)
	}
	return mime, data, nil
}
