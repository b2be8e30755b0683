package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// レシート画像の保存先フォルダ。
const DefaultFolder = "restaurant-receipts"

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string

	//テスト時にhttptestへ向けるための上書き。空なら本番エンドポイント。
	BaseURL string
}

// Cloudinaryのupload RESTへ署名付きPOSTを1回だけ行う。
// リトライはしない。失敗は呼び出し側にそのまま返す。
type Uploader struct {
	cfg    Config
	client *http.Client
}

func NewUploader(cfg Config) *Uploader {
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	return &Uploader{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload は画像をアップロードして恒久URLを返す。
func (u *Uploader) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	//署名対象はfolderとtimestampをキー昇順で並べたもの
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", u.cfg.Folder, timestamp, u.cfg.APISecret)
	sum := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(sum[:])

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "receipt")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}

	fields := map[string]string{
		"api_key":   u.cfg.APIKey,
		"timestamp": timestamp,
		"signature": signature,
		"folder":    u.cfg.Folder,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", u.cfg.BaseURL, u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, string(raw))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "unknown error"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, msg)
	}

	//secure_urlが無ければ失敗扱い
	if out.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: no secure url in response")
	}

	return out.SecureURL, nil
}
