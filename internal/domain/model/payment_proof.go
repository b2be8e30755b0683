package model

import "time"

// 支払い証憑（アップロード済みレシート画像のURL）。
// URLはDB書き込み前にBlobストアから取得しておく。
type PaymentProof struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string    `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
