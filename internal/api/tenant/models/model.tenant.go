// Package models - Producer (tenant) của nền tảng storefront (tenants).
// Mỗi producer vận hành một storefront và có thể connect tài khoản Mercado Pago riêng.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Producer lưu thông tin tenant (tenants).
type Producer struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Identity
	UserID    string `json:"userId" bson:"userId" index:"unique"` // User id từ hệ thống auth (mỗi user sở hữu 1 producer)
	StoreName string `json:"storeName" bson:"storeName"`
	OwnerName string `json:"ownerName,omitempty" bson:"ownerName,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty" index:"unique,sparse"`

	// Gói dịch vụ: trial | monthly | yearly | admin
	Plan   string `json:"plan" bson:"plan" default:"trial"`
	Active bool   `json:"active" bson:"active" default:"true"`

	// Credential Mercado Pago — 4 field + flag luôn được ghi nguyên khối (1 lệnh $set khi connect,
	// 1 lệnh $unset + flag khi disconnect). Không bao giờ tồn tại trạng thái ghi dở.
	MpConnected      bool   `json:"mpConnected" bson:"mpConnected"`
	MpUserID         string `json:"mpUserId,omitempty" bson:"mpUserId,omitempty"`
	MpAccessToken    string `json:"-" bson:"mpAccessToken,omitempty"`
	MpRefreshToken   string `json:"-" bson:"mpRefreshToken,omitempty"`
	MpTokenExpiresAt int64  `json:"mpTokenExpiresAt,omitempty" bson:"mpTokenExpiresAt,omitempty"` // Unix ms

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt" index:"single:1"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt" index:"single:1"`
}

// MpCredentialBundle gói credential nhận về từ bước exchange OAuth.
// Đủ 4 field thì mới được persist (xem ProducerService.SetCredential).
type MpCredentialBundle struct {
	AccessToken  string
	RefreshToken string
	MpUserID     string
	ExpiresAt    int64 // Unix ms
}
