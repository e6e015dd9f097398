// Package webhookhdl - Test rút event type từ notification Mercado Pago.
package webhookhdl

import "testing"

func TestExtractEventType(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		query map[string]string
		want  string
	}{
		{
			name: "type trong body thắng",
			body: `{"type":"payment","action":"payment.updated"}`,
			want: "payment",
		},
		{
			name: "action khi không có type",
			body: `{"action":"payment.created"}`,
			want: "payment.created",
		},
		{
			name: "topic khi không có type/action",
			body: `{"topic":"merchant_order"}`,
			want: "merchant_order",
		},
		{
			name:  "query type khi body rỗng",
			body:  ``,
			query: map[string]string{"type": "payment"},
			want:  "payment",
		},
		{
			name:  "query topic là lựa chọn cuối",
			body:  `{}`,
			query: map[string]string{"topic": "payment"},
			want:  "payment",
		},
		{
			name: "không có gì trả chuỗi rỗng",
			body: `{"id":"123"}`,
			want: "",
		},
		{
			name:  "body không phải JSON không panic",
			body:  `xxx`,
			query: map[string]string{"type": "payment"},
			want:  "payment",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractEventType([]byte(tc.body), tc.query); got != tc.want {
				t.Errorf("extractEventType = %q, muốn %q", got, tc.want)
			}
		})
	}
}
