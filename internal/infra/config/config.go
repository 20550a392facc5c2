// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string

	// CORS: storefront のオリジン
	AllowedOrigin string

	// 注文確認メール (SendGrid)。未設定ならメール送信はスキップされる。
	// SENDGRID_API_KEY を直接渡すか、SENDGRID_SECRET_NAME で
	// Secret Manager から解決する。
	SendGridAPIKey     string
	SendGridSecretName string
	MailFrom           string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		// FIREBASE_PROJECT_ID が未指定なら GCP のデフォルトを使う
		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: os.Getenv("SENDGRID_SECRET_NAME"),
		MailFrom:           getenvDefault("MAIL_FROM", "no-reply@toko.example"),
	}
}

// LocalMode reports whether the server should run on in-memory adapters with
// the seeded demo catalog (no Firestore project configured).
func (c *Config) LocalMode() bool {
	return strings.TrimSpace(c.FirestoreProjectID) == ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
