// Package paymentsvc - Test rút payment id từ notification và ánh xạ trạng thái provider.
package paymentsvc

import (
	"testing"

	ordermodels "mercado_local/internal/api/order/models"
)

func TestExtractPaymentID_PriorityOrder(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		query map[string]string
		want  string
	}{
		{
			name: "body.data.id thắng tất cả",
			body: `{"data":{"id":"111"},"id":"222"}`,
			query: map[string]string{
				"data.id": "333",
				"id":      "444",
			},
			want: "111",
		},
		{
			name:  "body.data_id xếp sau body.data.id",
			body:  `{"data":{"id":"111"},"data_id":"555"}`,
			query: nil,
			want:  "111",
		},
		{
			name:  "body.data_id thắng body.id",
			body:  `{"data_id":"555","id":"222"}`,
			query: map[string]string{"id": "444"},
			want:  "555",
		},
		{
			name:  "body.id khi không có body.data.id",
			body:  `{"id":"222","type":"payment"}`,
			query: map[string]string{"id": "444"},
			want:  "222",
		},
		{
			name:  "query data.id khi body không có id",
			body:  `{"type":"payment"}`,
			query: map[string]string{"data.id": "333", "id": "444"},
			want:  "333",
		},
		{
			name:  "query id là lựa chọn cuối",
			body:  ``,
			query: map[string]string{"id": "444"},
			want:  "444",
		},
		{
			name:  "id dạng số không bị đổi format",
			body:  `{"data":{"id":123456789012345}}`,
			query: nil,
			want:  "123456789012345",
		},
		{
			name:  "body không phải JSON vẫn rơi xuống query",
			body:  `khong phai json`,
			query: map[string]string{"data.id": "333"},
			want:  "333",
		},
		{
			name:  "không tìm thấy ở đâu trả chuỗi rỗng",
			body:  `{"type":"test"}`,
			query: map[string]string{},
			want:  "",
		},
		{
			name:  "data không phải object không panic",
			body:  `{"data":"xyz","id":"222"}`,
			query: nil,
			want:  "222",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPaymentID([]byte(tc.body), tc.query)
			if got != tc.want {
				t.Errorf("ExtractPaymentID = %q, muốn %q", got, tc.want)
			}
		})
	}
}

func TestMapProviderStatus(t *testing.T) {
	cases := []struct {
		status string
		detail string
		want   string
	}{
		{"approved", "accredited", ordermodels.PaymentStatusPaid},
		{"pending", "pending_waiting_transfer", ordermodels.PaymentStatusPending},
		{"in_process", "", ordermodels.PaymentStatusPending},
		{"cancelled", "", ordermodels.PaymentStatusCancelled},
		{"rejected", "cc_rejected_other_reason", ordermodels.PaymentStatusCancelled},
		{"refunded", "", ordermodels.PaymentStatusCancelled},
		{"charged_back", "", ordermodels.PaymentStatusCancelled},
		{"expired", "", ordermodels.PaymentStatusExpired},

		// status_detail chứa "expired" cũng map sang expired
		{"cancelled_unknown", "payment_expired", ordermodels.PaymentStatusExpired},

		// Status lạ → pending (bảo thủ, chờ notification tiếp theo)
		{"authorized", "", ordermodels.PaymentStatusPending},
		{"", "", ordermodels.PaymentStatusPending},
	}

	for _, tc := range cases {
		if got := MapProviderStatus(tc.status, tc.detail); got != tc.want {
			t.Errorf("MapProviderStatus(%q, %q) = %q, muốn %q", tc.status, tc.detail, got, tc.want)
		}
	}
}
