package mail

import (
	"context"
	"fmt"
	"strings"

	"app/internal/usecase"

	"github.com/keighl/postmark"
)

// 注文確認メールをPostmarkで送る。
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// DI
func NewPostmarkMailer(serverToken string, from string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (m *PostmarkMailer) SendOrderConfirmation(ctx context.Context, toEmail string, order usecase.OrderOutput) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>ご注文ありがとうございます（注文番号 #%d）。</p><ul>", order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<li>%s × %d — %d</li>", it.Name, it.Quantity, it.Price*it.Quantity)
	}
	fmt.Fprintf(&b, "</ul><p>商品計 %d / 送料 %d / 合計 %d</p>",
		order.ItemsPrice, order.ShippingPrice, order.TotalPrice)

	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       toEmail,
		Subject:  fmt.Sprintf("注文確認 #%d", order.ID),
		HtmlBody: b.String(),
		TextBody: fmt.Sprintf("注文 #%d 合計 %d", order.ID, order.TotalPrice),
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
