package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 送料ルール：商品計が閾値を超えたら無料、それ以外は一律
// （ちょうど閾値のときは有料）。
const (
	freeShippingThreshold int64 = 500
	flatShippingFee       int64 = 50
)

// 注文入力の検証はinternal/validatorに実装して注入する。
type OrderValidator interface {
	ValidateCreateOrder(in CreateOrderInput) error
}

// 注文確認メール。送信失敗は注文を失敗させない。
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, order OrderOutput) error
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	userRepo  repo.UserRepository
	validator OrderValidator
	mailer    Mailer
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	validator OrderValidator,
	mailer Mailer,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, userRepo: userRepo, validator: validator, mailer: mailer}
}

type ShippingAddressInput struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Zip    string `json:"zip" validate:"required"`
}

type CreateOrderInput struct {
	ShippingAddress ShippingAddressInput `json:"shipping_address" validate:"required"`
	PaymentMethod   string               `json:"payment_method" validate:"required"`
	IdempotencyKey  string               `json:"-"`
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	Status          string                `json:"status"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	ItemsPrice      int64                 `json:"items_price"`
	ShippingPrice   int64                 `json:"shipping_price"`
	TotalPrice      int64                 `json:"total_price"`
	IsPaid          bool                  `json:"is_paid"`
	IsDelivered     bool                  `json:"is_delivered"`
	DeliveredAt     *time.Time            `json:"delivered_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
}

// PlaceOrder はカートを注文へ変換するチェックアウト本体。
// 在庫検証→価格計算→注文作成→条件付き在庫減算→カートクリアまでを
// 1つのDBトランザクションで行い、1行でも失敗したら全体をロールバックする。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateCreateOrder(in); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// 二重送信防止キー。クライアントが送らなければこちらで発行する
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			//既存注文を返す
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		//カート取得
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//全明細を現在の商品レコードで再検証してから金額を計算する。
		//1行でも落ちたら注文全体を作らない
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var itemsPrice int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "product is not available or out of stock")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive || p.Stock < ci.Quantity {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("product %s is not available or out of stock", p.Name))
			}

			//価格は購入時点の現在価格で確定（カート表示値は信用しない）
			itemsPrice += p.Price * ci.Quantity

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				CreatedAt:           time.Now(),
			})
		}

		shippingPrice := flatShippingFee
		if itemsPrice > freeShippingThreshold {
			shippingPrice = 0
		}
		totalPrice := itemsPrice + shippingPrice

		// 注文作成
		now := time.Now()
		order := model.Order{
			UserID: userID,
			ShippingAddress: model.ShippingAddress{
				Street: strings.TrimSpace(in.ShippingAddress.Street),
				City:   strings.TrimSpace(in.ShippingAddress.City),
				State:  strings.TrimSpace(in.ShippingAddress.State),
				Zip:    strings.TrimSpace(in.ShippingAddress.Zip),
			},
			PaymentMethod:  strings.TrimSpace(in.PaymentMethod),
			ItemsPrice:     itemsPrice,
			ShippingPrice:  shippingPrice,
			TotalPrice:     totalPrice,
			Status:         model.OrderStatusPlaced,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//条件付き在庫減算。検証後に他の注文が在庫を取った場合は
		//ここでfalseになり、注文ごとロールバックされる
		for _, it := range orderItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("product %s is not available or out of stock", it.ProductNameSnapshot))
			}
		}

		//カートを空にする（カート自体は残す）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.sendConfirmation(ctx, userID, out)

	return out, nil
}

// 確認メールはベストエフォート。失敗してもログだけ残す
func (u *OrderUsecase) sendConfirmation(ctx context.Context, userID int64, out OrderOutput) {
	if u.mailer == nil {
		return
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		slog.Warn("order confirmation skipped: user lookup failed", "order_id", out.ID, "user_id", userID)
		return
	}

	if err := u.mailer.SendOrderConfirmation(ctx, user.Email, out); err != nil {
		slog.Warn("order confirmation mail failed", "order_id", out.ID, "error", err)
	}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングでまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細。本人か管理者だけが見られる。他人は403
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, role model.Role, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID && role != model.RoleAdmin {
			return NewHTTPError(http.StatusForbidden, "not authorized to view this order")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		IsPaid:          o.IsPaid,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
